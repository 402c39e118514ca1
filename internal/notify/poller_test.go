package notify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pbv-society/societyhub/internal/models"
)

type fakeNotificationStore struct {
	unread atomic.Int64
	calls  atomic.Int64
}

func (f *fakeNotificationStore) ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationStore) MarkNotificationRead(ctx context.Context, id, userID string) error {
	return nil
}

func (f *fakeNotificationStore) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return nil
}

func (f *fakeNotificationStore) CountUnread(ctx context.Context, userID string) (int, error) {
	f.calls.Add(1)
	return int(f.unread.Load()), nil
}

func TestPollerReportsCounts(t *testing.T) {
	store := &fakeNotificationStore{}
	store.unread.Store(3)

	counts := make(chan int, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := NewPoller(store, 10*time.Millisecond)
	go poller.Run(ctx, "op-1", func(unread int) { counts <- unread })

	select {
	case got := <-counts:
		if got != 3 {
			t.Errorf("expected 3 unread, got %d", got)
		}
	case <-time.After(time.Second):
		t.Fatal("no count reported")
	}

	store.unread.Store(0)
	deadline := time.After(time.Second)
	for {
		select {
		case got := <-counts:
			if got == 0 {
				return // change observed
			}
		case <-deadline:
			t.Fatal("updated count never reported")
		}
	}
}

func TestPollerStopsOnCancel(t *testing.T) {
	store := &fakeNotificationStore{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	poller := NewPoller(store, 5*time.Millisecond)
	go func() {
		poller.Run(ctx, "op-1", func(int) {})
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancellation")
	}

	calls := store.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if store.calls.Load() != calls {
		t.Error("poller kept fetching after cancellation")
	}
}
