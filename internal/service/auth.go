package service

import (
	"context"
	"log/slog"

	"github.com/pbv-society/societyhub/internal/apperr"
	"github.com/pbv-society/societyhub/internal/auth"
	"github.com/pbv-society/societyhub/internal/models"
	"github.com/pbv-society/societyhub/internal/storage"
)

// RegisterRequest is a public MC membership application.
type RegisterRequest struct {
	Name           string   `json:"name"`
	TowerNo        string   `json:"tower_no"`
	UnitNo         string   `json:"unit_no"`
	ContactNumber  string   `json:"contact_number"`
	Email          string   `json:"email"`
	PhotoURL       string   `json:"photo_url,omitempty"`
	InterestGroups []string `json:"interest_groups,omitempty"`
}

// RegisterResult confirms a submitted application.
type RegisterResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	MCUserID string `json:"mc_user_id"`
}

// LoginRequest carries portal credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is a successful portal login.
type LoginResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Name    string `json:"name"`
	// NeedsPasswordChange is true while the member is still on a
	// temporary password, including after a forgot-password reset.
	NeedsPasswordChange bool `json:"needs_password_change"`
}

// ChangePasswordRequest rotates a member's password. OldPassword may be
// the temporary password or the current permanent one.
type ChangePasswordRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordResult confirms a rotation.
type ChangePasswordResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthService handles MC member registration, login, and password rotation.
type AuthService struct {
	store      storage.MCUserStore
	jwtManager *auth.JWTManager
}

// NewAuthService creates the member-facing authentication service.
func NewAuthService(store storage.MCUserStore, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{store: store, jwtManager: jwtManager}
}

// Register submits a membership application in pending status.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*RegisterResult, error) {
	if req.Name == "" || req.Email == "" || req.TowerNo == "" || req.UnitNo == "" {
		return nil, apperr.New(apperr.ValidationError, "name, email, tower_no and unit_no are required")
	}

	// One live application per email: a rejected record does not block
	// re-application, a pending or approved one does.
	for _, status := range []models.MCStatus{models.MCStatusPending, models.MCStatusApproved} {
		existing, err := s.store.GetMCUserByEmail(ctx, req.Email, status)
		if err != nil {
			return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to check existing registration", err)
		}
		if existing != nil {
			return nil, apperr.New(apperr.ValidationError, "a registration already exists for this email")
		}
	}

	user := &models.MCUser{
		Name:           req.Name,
		TowerNo:        req.TowerNo,
		UnitNo:         req.UnitNo,
		ContactNumber:  req.ContactNumber,
		Email:          req.Email,
		PhotoURL:       req.PhotoURL,
		InterestGroups: req.InterestGroups,
	}
	if err := s.store.CreateMCUser(ctx, user); err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to create registration", err)
	}

	slog.Info("MC registration submitted", "mc_user_id", user.ID, "tower", user.TowerNo, "unit", user.UnitNo)

	return &RegisterResult{
		Success:  true,
		Message:  "Registration submitted for approval",
		MCUserID: user.ID,
	}, nil
}

// Login verifies portal credentials for an approved member. The
// permanent password (bcrypt hash) is preferred; the temporary password
// is accepted until rotated and flags the session for a forced change.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperr.New(apperr.ValidationError, "username and password are required")
	}

	user, needsChange, err := s.verify(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtManager.Generate(user.ID, user.LoginUsername, "mc")
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to generate session token", err)
	}

	slog.Info("MC login", "mc_user_id", user.ID, "needs_password_change", needsChange)

	return &LoginResult{
		Success:             true,
		Token:               token,
		Name:                user.Name,
		NeedsPasswordChange: needsChange,
	}, nil
}

// ChangePassword rotates the member's password after verifying the old
// one, and clears the temporary password.
func (s *AuthService) ChangePassword(ctx context.Context, req *ChangePasswordRequest) (*ChangePasswordResult, error) {
	if req.Username == "" || req.OldPassword == "" || req.NewPassword == "" {
		return nil, apperr.New(apperr.ValidationError, "username, old_password and new_password are required")
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return nil, apperr.Wrap(apperr.ValidationError, "new password rejected", err)
	}

	user, _, err := s.verify(ctx, req.Username, req.OldPassword)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to hash password", err)
	}
	if err := s.store.SetPasswordHash(ctx, user.ID, hash); err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to store password", err)
	}

	slog.Info("MC password changed", "mc_user_id", user.ID)

	return &ChangePasswordResult{Success: true, Message: "Password updated"}, nil
}

// verify authenticates username/password against an approved record.
// The returned flag reports whether the temporary password was used.
func (s *AuthService) verify(ctx context.Context, username, password string) (*models.MCUser, bool, error) {
	user, err := s.store.GetMCUserByUsername(ctx, username)
	if err != nil {
		return nil, false, apperr.Wrap(apperr.UpstreamFailure, "failed to look up MC user", err)
	}
	if user == nil || user.Status != models.MCStatusApproved {
		return nil, false, apperr.New(apperr.Unauthorized, "invalid username or password, or account not approved")
	}

	if user.PasswordHash != "" && auth.CheckPassword(user.PasswordHash, password) {
		return user, false, nil
	}
	if user.TempPassword != "" && user.TempPassword == password {
		return user, true, nil
	}

	return nil, false, apperr.New(apperr.Unauthorized, "invalid username or password, or account not approved")
}
