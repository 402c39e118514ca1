package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pbv-society/societyhub/internal/apperr"
	"github.com/pbv-society/societyhub/internal/auth"
	"github.com/pbv-society/societyhub/internal/creds"
	"github.com/pbv-society/societyhub/internal/mail"
	"github.com/pbv-society/societyhub/internal/models"
	"github.com/pbv-society/societyhub/internal/storage"
)

const (
	// ActionApprove and ActionReject are the accepted decision values.
	ActionApprove = "approve"
	ActionReject  = "reject"

	// defaultRejectionReason is recorded when the operator supplies none.
	defaultRejectionReason = "Application rejected by admin"

	// maxUsernameAttempts bounds the collision retry loop. The first
	// attempt is the deterministic base name; later attempts carry a
	// base-36 millisecond timestamp, so exhaustion means the clock or
	// the datastore is misbehaving.
	maxUsernameAttempts = 3
)

// ApprovalRequest is the operator's decision on one MC registration.
type ApprovalRequest struct {
	MCUserID        string `json:"mc_user_id"`
	Action          string `json:"action"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// ApprovalResult reports the outcome of an approval or rejection.
type ApprovalResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Username string `json:"username,omitempty"`
}

// ForgotPasswordResult reports the outcome of a reset request. It is
// deliberately identical for known and unknown emails.
type ForgotPasswordResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PendingRegistration is the operator-facing view of one registration
// awaiting a decision. Credential fields are never included.
type PendingRegistration struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	TowerNo        string   `json:"tower_no"`
	UnitNo         string   `json:"unit_no"`
	ContactNumber  string   `json:"contact_number"`
	Email          string   `json:"email"`
	PhotoURL       string   `json:"photo_url,omitempty"`
	InterestGroups []string `json:"interest_groups"`
	CreatedAt      int64    `json:"created_at"`
}

// PendingList is the response for the pending-registrations listing.
type PendingList struct {
	MCUsers []PendingRegistration `json:"mc_users"`
	Count   int                   `json:"count"`
}

// ApprovalService runs the MC credential-issuance workflow: role-gated
// approval and rejection, plus unauthenticated password resets.
type ApprovalService struct {
	store          storage.Store
	mailer         mail.Mailer
	jwtManager     *auth.JWTManager
	privilegedRole string
}

// NewApprovalService creates the workflow service.
func NewApprovalService(store storage.Store, mailer mail.Mailer, jwtManager *auth.JWTManager, privilegedRole string) *ApprovalService {
	return &ApprovalService{
		store:          store,
		mailer:         mailer,
		jwtManager:     jwtManager,
		privilegedRole: privilegedRole,
	}
}

// Decide approves or rejects the target registration on behalf of the
// bearer of token. The caller's role must equal the privileged role and
// the target must still be pending.
func (s *ApprovalService) Decide(ctx context.Context, token string, req *ApprovalRequest) (*ApprovalResult, error) {
	caller, err := s.authorize(ctx, token)
	if err != nil {
		return nil, err
	}

	if req.MCUserID == "" {
		return nil, apperr.New(apperr.ValidationError, "mc_user_id is required")
	}
	if req.Action != ActionApprove && req.Action != ActionReject {
		return nil, apperr.New(apperr.ValidationError, "action must be approve or reject")
	}

	user, err := s.store.GetMCUser(ctx, req.MCUserID)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to load MC user", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "MC user not found")
	}
	if user.Status != models.MCStatusPending {
		return nil, apperr.New(apperr.InvalidState, "MC user is not in pending status")
	}

	if req.Action == ActionReject {
		return s.reject(ctx, user, req.RejectionReason)
	}
	return s.approve(ctx, caller, user)
}

func (s *ApprovalService) approve(ctx context.Context, caller *auth.Claims, user *models.MCUser) (*ApprovalResult, error) {
	tempPassword, err := creds.TempPassword()
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to generate temporary password", err)
	}

	username, err := s.assignUsername(ctx, user)
	if err != nil {
		return nil, err
	}

	approvedAt := time.Now().Unix()
	rows, err := s.store.ApproveMCUser(ctx, user.ID, username, tempPassword, caller.UserID, approvedAt)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to approve MC user", err)
	}
	if rows == 0 {
		// Lost a race: someone else decided this record first.
		return nil, apperr.New(apperr.InvalidState, "MC user is not in pending status")
	}

	msg, err := mail.ApprovalMessage(user.Name, user.Email, user.TowerNo, user.UnitNo,
		username, tempPassword, user.InterestGroups)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to build approval email", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to send approval email", err)
	}

	slog.Info("MC user approved",
		"mc_user_id", user.ID,
		"username", username,
		"approved_by", caller.UserID,
	)

	return &ApprovalResult{Success: true, Message: "MC user approved", Username: username}, nil
}

func (s *ApprovalService) reject(ctx context.Context, user *models.MCUser, reason string) (*ApprovalResult, error) {
	stored := reason
	if stored == "" {
		stored = defaultRejectionReason
	}

	rows, err := s.store.RejectMCUser(ctx, user.ID, stored)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to reject MC user", err)
	}
	if rows == 0 {
		return nil, apperr.New(apperr.InvalidState, "MC user is not in pending status")
	}

	// The emailed notice carries a reason block only when the operator
	// supplied one; the stored record always holds a reason.
	msg, err := mail.RejectionMessage(user.Name, user.Email, reason)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to build rejection email", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to send rejection email", err)
	}

	slog.Info("MC user rejected", "mc_user_id", user.ID, "reason", stored)

	return &ApprovalResult{Success: true, Message: "MC user rejected"}, nil
}

// ListPending returns the registrations still awaiting a decision,
// newest first, for the operator's approval queue. Same role gate as
// Decide.
func (s *ApprovalService) ListPending(ctx context.Context, token string) (*PendingList, error) {
	if _, err := s.authorize(ctx, token); err != nil {
		return nil, err
	}

	users, err := s.store.ListMCUsers(ctx, models.MCStatusPending)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to list pending MC users", err)
	}

	list := &PendingList{MCUsers: make([]PendingRegistration, 0, len(users)), Count: len(users)}
	for _, u := range users {
		list.MCUsers = append(list.MCUsers, PendingRegistration{
			ID:             u.ID,
			Name:           u.Name,
			TowerNo:        u.TowerNo,
			UnitNo:         u.UnitNo,
			ContactNumber:  u.ContactNumber,
			Email:          u.Email,
			PhotoURL:       u.PhotoURL,
			InterestGroups: u.InterestGroups,
			CreatedAt:      u.CreatedAt,
		})
	}
	return list, nil
}

// ForgotPassword regenerates the temporary password for an approved
// record matching email. Unknown or unapproved emails get the same
// generic response with no side effects, so callers cannot probe which
// addresses are registered.
func (s *ApprovalService) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error) {
	if email == "" {
		return nil, apperr.New(apperr.ValidationError, "email is required")
	}

	user, err := s.store.GetMCUserByEmail(ctx, email, models.MCStatusApproved)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to look up MC user", err)
	}
	if user == nil {
		slog.Info("Password reset requested for unknown or unapproved email")
		return &ForgotPasswordResult{
			Success: true,
			Message: "If the email is registered, a reset email will be sent.",
		}, nil
	}

	tempPassword, err := creds.TempPassword()
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to generate temporary password", err)
	}

	if err := s.store.SetTempPassword(ctx, user.ID, tempPassword); err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to reset password", err)
	}

	msg, err := mail.ResetMessage(user.Name, user.Email, user.LoginUsername, tempPassword)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to build reset email", err)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to send password reset email", err)
	}

	slog.Info("Password reset issued", "mc_user_id", user.ID)

	return &ForgotPasswordResult{Success: true, Message: "Password reset email sent"}, nil
}

// authorize validates the bearer token and checks the caller holds the
// privileged role.
func (s *ApprovalService) authorize(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, apperr.New(apperr.Unauthorized, "no authorization header")
	}

	claims, err := s.jwtManager.Validate(token)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unauthorized, "unauthorized", err)
	}

	role, err := s.store.GetRole(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to look up caller role", err)
	}
	if role != s.privilegedRole {
		return nil, apperr.New(apperr.Forbidden, "only treasurers can approve MC users")
	}

	return claims, nil
}

// assignUsername produces a stored-unique username for the member,
// retrying with a timestamp infix on collision.
func (s *ApprovalService) assignUsername(ctx context.Context, user *models.MCUser) (string, error) {
	base := creds.Username(user.Name, user.UnitNo)
	username := base

	for attempt := 0; ; attempt++ {
		exists, err := s.store.UsernameExists(ctx, username)
		if err != nil {
			return "", apperr.Wrap(apperr.UpstreamFailure, "failed to check username", err)
		}
		if !exists {
			return username, nil
		}
		if attempt == maxUsernameAttempts-1 {
			return "", apperr.New(apperr.UpstreamFailure, "could not assign a unique username")
		}
		slog.Warn("Username collision, retrying with timestamp", "base", base, "attempt", attempt+1)
		username = creds.UsernameWithTimestamp(base, time.Now())
	}
}
