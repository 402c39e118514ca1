// Package notify provides a cancellable unread-count poller for clients
// that show a live notification badge.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/pbv-society/societyhub/internal/storage"
)

// Poller re-fetches a user's unread notification count on a fixed
// interval and reports changes to a callback. It stops when its context
// is cancelled; there is no ambient timer left running after teardown.
type Poller struct {
	store    storage.NotificationStore
	interval time.Duration
}

// NewPoller creates a poller with the given refresh interval.
func NewPoller(store storage.NotificationStore, interval time.Duration) *Poller {
	return &Poller{store: store, interval: interval}
}

// Run polls until ctx is cancelled, invoking onCount with the unread
// count after each successful fetch (including an immediate first
// fetch). Fetch errors are logged and the next tick retries; the poller
// itself never gives up while the context is live.
func (p *Poller) Run(ctx context.Context, userID string, onCount func(unread int)) {
	p.fetch(ctx, userID, onCount)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetch(ctx, userID, onCount)
		}
	}
}

func (p *Poller) fetch(ctx context.Context, userID string, onCount func(unread int)) {
	count, err := p.store.CountUnread(ctx, userID)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("Notification poll failed", "user_id", userID, "error", err)
		}
		return
	}
	onCount(count)
}
