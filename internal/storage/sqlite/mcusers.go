package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pbv-society/societyhub/internal/models"
)

const mcUserColumns = `id, name, tower_no, unit_no, contact_number, email, photo_url,
	interest_groups, status, login_username, temp_password, password_hash,
	approved_by, approved_at, rejection_reason, created_at, updated_at`

// CreateMCUser inserts a new registration record.
func (s *SQLiteStore) CreateMCUser(ctx context.Context, user *models.MCUser) error {
	// Generate IDs and timestamps if not set
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Status == "" {
		user.Status = models.MCStatusPending
	}
	now := time.Now().Unix()
	if user.CreatedAt == 0 {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	groups, err := json.Marshal(user.InterestGroups)
	if err != nil {
		return fmt.Errorf("failed to encode interest groups: %w", err)
	}

	query := `
		INSERT INTO mc_users (id, name, tower_no, unit_no, contact_number, email, photo_url,
			interest_groups, status, temp_password, password_hash, approved_by, approved_at,
			rejection_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		user.ID, user.Name, user.TowerNo, user.UnitNo, user.ContactNumber,
		user.Email, user.PhotoURL, string(groups), string(user.Status),
		user.TempPassword, user.PasswordHash, user.ApprovedBy, user.ApprovedAt,
		user.RejectionReason, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create mc user: %w", err)
	}

	return nil
}

// GetMCUser retrieves a record by ID.
func (s *SQLiteStore) GetMCUser(ctx context.Context, id string) (*models.MCUser, error) {
	query := `SELECT ` + mcUserColumns + ` FROM mc_users WHERE id = ?`
	return s.scanMCUser(s.db.QueryRowContext(ctx, query, id))
}

// GetMCUserByEmail retrieves the record matching email and status.
func (s *SQLiteStore) GetMCUserByEmail(ctx context.Context, email string, status models.MCStatus) (*models.MCUser, error) {
	query := `SELECT ` + mcUserColumns + ` FROM mc_users WHERE email = ? AND status = ?`
	return s.scanMCUser(s.db.QueryRowContext(ctx, query, email, string(status)))
}

// GetMCUserByUsername retrieves a record by login username.
func (s *SQLiteStore) GetMCUserByUsername(ctx context.Context, username string) (*models.MCUser, error) {
	query := `SELECT ` + mcUserColumns + ` FROM mc_users WHERE login_username = ?`
	return s.scanMCUser(s.db.QueryRowContext(ctx, query, username))
}

// UsernameExists reports whether any record holds the username.
func (s *SQLiteStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM mc_users WHERE login_username = ?",
		username,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// ApproveMCUser transitions a pending record to approved with credentials.
// The status guard in the WHERE clause makes the transition observable:
// zero rows changed means the record was not pending (or absent).
func (s *SQLiteStore) ApproveMCUser(ctx context.Context, id, username, tempPassword, approvedBy string, approvedAt int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE mc_users
		SET status = ?, login_username = ?, temp_password = ?, approved_by = ?,
			approved_at = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(models.MCStatusApproved), username, tempPassword, approvedBy,
		approvedAt, time.Now().Unix(), id, string(models.MCStatusPending),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to approve mc user: %w", err)
	}
	return res.RowsAffected()
}

// RejectMCUser transitions a pending record to rejected.
func (s *SQLiteStore) RejectMCUser(ctx context.Context, id, reason string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE mc_users
		SET status = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(models.MCStatusRejected), reason, time.Now().Unix(),
		id, string(models.MCStatusPending),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reject mc user: %w", err)
	}
	return res.RowsAffected()
}

// SetTempPassword overwrites the stored temporary password.
func (s *SQLiteStore) SetTempPassword(ctx context.Context, id, tempPassword string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE mc_users SET temp_password = ?, updated_at = ? WHERE id = ?",
		tempPassword, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set temp password: %w", err)
	}
	return nil
}

// SetPasswordHash stores a permanent password hash and clears the temp password.
func (s *SQLiteStore) SetPasswordHash(ctx context.Context, id, hash string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE mc_users SET password_hash = ?, temp_password = '', updated_at = ? WHERE id = ?",
		hash, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set password hash: %w", err)
	}
	return nil
}

// ListMCUsers returns all records with the given status, newest first.
func (s *SQLiteStore) ListMCUsers(ctx context.Context, status models.MCStatus) ([]*models.MCUser, error) {
	query := `SELECT ` + mcUserColumns + ` FROM mc_users WHERE status = ? ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list mc users: %w", err)
	}
	defer rows.Close()

	var users []*models.MCUser
	for rows.Next() {
		user, err := scanMCUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mc users: %w", err)
	}

	return users, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLiteStore) scanMCUser(row *sql.Row) (*models.MCUser, error) {
	user, err := scanMCUserRow(row)
	if err == sql.ErrNoRows {
		return nil, nil // Record not found
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func scanMCUserRow(row rowScanner) (*models.MCUser, error) {
	user := &models.MCUser{}
	var groups string
	var status string
	var username sql.NullString

	err := row.Scan(
		&user.ID, &user.Name, &user.TowerNo, &user.UnitNo, &user.ContactNumber,
		&user.Email, &user.PhotoURL, &groups, &status, &username,
		&user.TempPassword, &user.PasswordHash, &user.ApprovedBy, &user.ApprovedAt,
		&user.RejectionReason, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan mc user: %w", err)
	}

	user.Status = models.MCStatus(status)
	user.LoginUsername = username.String
	if err := json.Unmarshal([]byte(groups), &user.InterestGroups); err != nil {
		return nil, fmt.Errorf("failed to decode interest groups: %w", err)
	}

	return user, nil
}
