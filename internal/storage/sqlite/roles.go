package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GetRole returns the role assigned to a user ID, or "" when none is assigned.
func (s *SQLiteStore) GetRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := s.db.QueryRowContext(ctx,
		"SELECT role FROM user_roles WHERE user_id = ?",
		userID,
	).Scan(&role)
	if err == sql.ErrNoRows {
		return "", nil // No role assigned
	}
	if err != nil {
		return "", fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

// SetRole assigns a role to a user, replacing any existing assignment.
func (s *SQLiteStore) SetRole(ctx context.Context, userID, role string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role, created_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET role = excluded.role`,
		userID, role, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}
