// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/pbv-society/societyhub/internal/models"
)

// MCUserStore defines the persistence operations for MC registration
// records. This abstraction allows swapping storage backends (SQLite,
// PostgreSQL, etc.) without changing the service layer.
type MCUserStore interface {
	// CreateMCUser persists a new registration. ID, Status and
	// CreatedAt are populated by the store when unset.
	CreateMCUser(ctx context.Context, user *models.MCUser) error

	// GetMCUser retrieves a record by ID. Returns nil without error
	// when the record does not exist.
	GetMCUser(ctx context.Context, id string) (*models.MCUser, error)

	// GetMCUserByEmail retrieves a record matching email and status.
	// Returns nil without error when no record matches.
	GetMCUserByEmail(ctx context.Context, email string, status models.MCStatus) (*models.MCUser, error)

	// GetMCUserByUsername retrieves a record by login username.
	// Returns nil without error when no record matches.
	GetMCUserByUsername(ctx context.Context, username string) (*models.MCUser, error)

	// UsernameExists reports whether any record holds the username.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// ApproveMCUser transitions a pending record to approved,
	// recording the credentials and approver. Returns the number of
	// rows changed: zero means the record was not pending.
	ApproveMCUser(ctx context.Context, id, username, tempPassword, approvedBy string, approvedAt int64) (int64, error)

	// RejectMCUser transitions a pending record to rejected with the
	// given reason. Returns the number of rows changed.
	RejectMCUser(ctx context.Context, id, reason string) (int64, error)

	// SetTempPassword overwrites the stored temporary password.
	SetTempPassword(ctx context.Context, id, tempPassword string) error

	// SetPasswordHash stores a permanent password hash and clears the
	// temporary password.
	SetPasswordHash(ctx context.Context, id, hash string) error

	// ListMCUsers returns all records with the given status, newest first.
	ListMCUsers(ctx context.Context, status models.MCStatus) ([]*models.MCUser, error)
}

// NotificationStore defines the persistence operations for operator
// notifications. Notifications are created elsewhere; this service only
// reads them and flips the read flag.
type NotificationStore interface {
	// ListNotifications returns a user's notifications, newest first.
	ListNotifications(ctx context.Context, userID string) ([]*models.Notification, error)

	// MarkNotificationRead sets is_read=true on one notification.
	MarkNotificationRead(ctx context.Context, id, userID string) error

	// MarkAllNotificationsRead sets is_read=true on all of a user's
	// unread notifications.
	MarkAllNotificationsRead(ctx context.Context, userID string) error

	// CountUnread returns the number of unread notifications for a user.
	CountUnread(ctx context.Context, userID string) (int, error)
}

// RoleStore looks up operator roles by user identity.
type RoleStore interface {
	// GetRole returns the role for a user ID, or "" when none is assigned.
	GetRole(ctx context.Context, userID string) (string, error)
}

// BudgetStore defines the persistence operations for budget lines used
// by spreadsheet bulk imports.
type BudgetStore interface {
	// UpdateMonthlyBudget sets the monthly budget for the line with
	// the given serial number in a fiscal year. Returns the number of
	// rows changed: zero means no line carries that serial.
	UpdateMonthlyBudget(ctx context.Context, fiscalYear string, serialNo int, amount float64) (int64, error)

	// ListBudgetItems returns all lines for a fiscal year ordered by
	// serial number.
	ListBudgetItems(ctx context.Context, fiscalYear string) ([]*models.BudgetItem, error)
}

// Store aggregates all repositories plus lifecycle management.
type Store interface {
	MCUserStore
	NotificationStore
	RoleStore
	BudgetStore

	// Close releases any resources held by the store.
	Close() error
}
