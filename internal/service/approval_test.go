package service

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/pbv-society/societyhub/internal/apperr"
	"github.com/pbv-society/societyhub/internal/auth"
	"github.com/pbv-society/societyhub/internal/mail"
	"github.com/pbv-society/societyhub/internal/models"
	"github.com/pbv-society/societyhub/internal/storage/sqlite"
)

// fakeMailer records sent messages instead of speaking SMTP.
type fakeMailer struct {
	sent []*mail.Message
}

func (m *fakeMailer) Send(ctx context.Context, msg *mail.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type approvalFixture struct {
	store   *sqlite.SQLiteStore
	mailer  *fakeMailer
	svc     *ApprovalService
	jwt     *auth.JWTManager
	token   string // valid treasurer token
	memberT string // valid token without the treasurer role
}

func newApprovalFixture(t *testing.T) *approvalFixture {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "societyhub-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if err := store.SetRole(ctx, "treasurer-1", "treasurer"); err != nil {
		t.Fatalf("failed to seed role: %v", err)
	}
	if err := store.SetRole(ctx, "member-1", "member"); err != nil {
		t.Fatalf("failed to seed role: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.Generate("treasurer-1", "treasurer-1", "treasurer")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	memberToken, err := jwtManager.Generate("member-1", "member-1", "member")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	mailer := &fakeMailer{}
	return &approvalFixture{
		store:   store,
		mailer:  mailer,
		svc:     NewApprovalService(store, mailer, jwtManager, "treasurer"),
		jwt:     jwtManager,
		token:   token,
		memberT: memberToken,
	}
}

func (f *approvalFixture) seedPending(t *testing.T, name, unitNo, email string) *models.MCUser {
	t.Helper()
	user := &models.MCUser{
		Name:           name,
		TowerNo:        "4",
		UnitNo:         unitNo,
		Email:          email,
		InterestGroups: []string{"Finance"},
	}
	if err := f.store.CreateMCUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed MC user: %v", err)
	}
	return user
}

func TestApproveIssuesCredentials(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	user := f.seedPending(t, "ravi kumar", "402", "ravi@example.com")

	result, err := f.svc.Decide(ctx, f.token, &ApprovalRequest{MCUserID: user.ID, Action: ActionApprove})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if !result.Success {
		t.Error("expected success")
	}
	if result.Username != "Ravi-402@mc-2527" {
		t.Errorf("username: got %q, want Ravi-402@mc-2527", result.Username)
	}

	stored, _ := f.store.GetMCUser(ctx, user.ID)
	if stored.Status != models.MCStatusApproved {
		t.Errorf("status: got %q", stored.Status)
	}
	if stored.LoginUsername != result.Username {
		t.Errorf("stored username %q != returned %q", stored.LoginUsername, result.Username)
	}
	if len(stored.TempPassword) != 12 {
		t.Errorf("temp password length: got %d", len(stored.TempPassword))
	}
	if stored.ApprovedBy != "treasurer-1" || stored.ApprovedAt == 0 {
		t.Errorf("approval metadata: %+v", stored)
	}

	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(f.mailer.sent))
	}
	body := f.mailer.sent[0].HTMLBody
	if !strings.Contains(body, result.Username) || !strings.Contains(body, stored.TempPassword) {
		t.Error("approval email missing credentials")
	}
}

func TestApproveUsernameCollisionRetry(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()

	// Occupy the base username
	first := f.seedPending(t, "Ravi Sharma", "402", "ravi.s@example.com")
	if _, err := f.svc.Decide(ctx, f.token, &ApprovalRequest{MCUserID: first.ID, Action: ActionApprove}); err != nil {
		t.Fatalf("first approval failed: %v", err)
	}

	second := f.seedPending(t, "ravi kumar", "402", "ravi.k@example.com")
	result, err := f.svc.Decide(ctx, f.token, &ApprovalRequest{MCUserID: second.ID, Action: ActionApprove})
	if err != nil {
		t.Fatalf("second approval failed: %v", err)
	}

	if result.Username == "Ravi-402@mc-2527" {
		t.Fatal("colliding approval reused the base username")
	}
	pattern := regexp.MustCompile(`^Ravi-402-[0-9a-z]+@mc-2527$`)
	if !pattern.MatchString(result.Username) {
		t.Errorf("retried username %q does not match Ravi-402-<base36>@mc-2527", result.Username)
	}
}

func TestDecideForbiddenWithoutPrivilegedRole(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	user := f.seedPending(t, "Anita Shah", "1203", "anita@example.com")

	_, err := f.svc.Decide(ctx, f.memberT, &ApprovalRequest{MCUserID: user.ID, Action: ActionApprove})
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := apperr.KindOf(err); kind != apperr.Forbidden {
		t.Errorf("kind: got %s, want forbidden", kind)
	}

	// No mutation, no email
	stored, _ := f.store.GetMCUser(ctx, user.ID)
	if stored.Status != models.MCStatusPending || stored.LoginUsername != "" {
		t.Errorf("record mutated: %+v", stored)
	}
	if len(f.mailer.sent) != 0 {
		t.Errorf("expected no email, got %d", len(f.mailer.sent))
	}
}

func TestDecideUnauthorizedWithoutToken(t *testing.T) {
	f := newApprovalFixture(t)
	user := f.seedPending(t, "Anita Shah", "1203", "anita2@example.com")

	_, err := f.svc.Decide(context.Background(), "", &ApprovalRequest{MCUserID: user.ID, Action: ActionApprove})
	if kind := apperr.KindOf(err); kind != apperr.Unauthorized {
		t.Errorf("kind: got %s, want unauthorized", kind)
	}

	_, err = f.svc.Decide(context.Background(), "not-a-jwt", &ApprovalRequest{MCUserID: user.ID, Action: ActionApprove})
	if kind := apperr.KindOf(err); kind != apperr.Unauthorized {
		t.Errorf("kind: got %s, want unauthorized", kind)
	}
}

func TestDecideInvalidStateAfterDecision(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	user := f.seedPending(t, "Vikram Rao", "101", "vikram@example.com")

	if _, err := f.svc.Decide(ctx, f.token, &ApprovalRequest{MCUserID: user.ID, Action: ActionApprove}); err != nil {
		t.Fatalf("approval failed: %v", err)
	}
	before, _ := f.store.GetMCUser(ctx, user.ID)

	_, err := f.svc.Decide(ctx, f.token, &ApprovalRequest{MCUserID: user.ID, Action: ActionApprove})
	if kind := apperr.KindOf(err); kind != apperr.InvalidState {
		t.Errorf("kind: got %s, want invalid_state", kind)
	}

	after, _ := f.store.GetMCUser(ctx, user.ID)
	if after.LoginUsername != before.LoginUsername || after.TempPassword != before.TempPassword {
		t.Error("second decision mutated the record")
	}
}

func TestDecideNotFound(t *testing.T) {
	f := newApprovalFixture(t)
	_, err := f.svc.Decide(context.Background(), f.token,
		&ApprovalRequest{MCUserID: "00000000-0000-0000-0000-000000000000", Action: ActionApprove})
	if kind := apperr.KindOf(err); kind != apperr.NotFound {
		t.Errorf("kind: got %s, want not_found", kind)
	}
}

func TestRejectDefaultReason(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	user := f.seedPending(t, "Meena Iyer", "305", "meena@example.com")

	result, err := f.svc.Decide(ctx, f.token, &ApprovalRequest{MCUserID: user.ID, Action: ActionReject})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if !result.Success || result.Username != "" {
		t.Errorf("unexpected result: %+v", result)
	}

	stored, _ := f.store.GetMCUser(ctx, user.ID)
	if stored.Status != models.MCStatusRejected {
		t.Errorf("status: got %q", stored.Status)
	}
	if stored.RejectionReason != "Application rejected by admin" {
		t.Errorf("reason: got %q, want the default literal", stored.RejectionReason)
	}

	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected rejection email, got %d", len(f.mailer.sent))
	}
	if strings.Contains(f.mailer.sent[0].HTMLBody, "Password") {
		t.Error("rejection email must not carry credentials")
	}
	// The default is a bookkeeping value; the member's email carries a
	// reason block only when the operator wrote one.
	if strings.Contains(f.mailer.sent[0].HTMLBody, "Reason:") {
		t.Error("defaulted rejection email must not render a reason block")
	}
}

func TestRejectOperatorReasonInEmail(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	user := f.seedPending(t, "Meena Iyer", "305", "meena2@example.com")

	_, err := f.svc.Decide(ctx, f.token, &ApprovalRequest{
		MCUserID: user.ID, Action: ActionReject, RejectionReason: "Unit has pending dues",
	})
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	stored, _ := f.store.GetMCUser(ctx, user.ID)
	if stored.RejectionReason != "Unit has pending dues" {
		t.Errorf("reason: got %q", stored.RejectionReason)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected rejection email, got %d", len(f.mailer.sent))
	}
	if !strings.Contains(f.mailer.sent[0].HTMLBody, "Unit has pending dues") {
		t.Error("rejection email missing the operator's reason")
	}
}

func TestListPending(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()

	first := f.seedPending(t, "Ravi Kumar", "402", "ravi@example.com")
	second := f.seedPending(t, "Anita Shah", "1203", "anita@example.com")
	if _, err := f.svc.Decide(ctx, f.token, &ApprovalRequest{MCUserID: first.ID, Action: ActionApprove}); err != nil {
		t.Fatalf("approval failed: %v", err)
	}

	list, err := f.svc.ListPending(ctx, f.token)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if list.Count != 1 || len(list.MCUsers) != 1 {
		t.Fatalf("expected 1 pending registration, got %+v", list)
	}
	got := list.MCUsers[0]
	if got.ID != second.ID || got.Name != "Anita Shah" || got.UnitNo != "1203" {
		t.Errorf("unexpected registration: %+v", got)
	}
	if len(got.InterestGroups) != 1 || got.InterestGroups[0] != "Finance" {
		t.Errorf("interest groups: got %v", got.InterestGroups)
	}
}

func TestListPendingRequiresPrivilegedRole(t *testing.T) {
	f := newApprovalFixture(t)
	f.seedPending(t, "Ravi Kumar", "402", "ravi@example.com")

	_, err := f.svc.ListPending(context.Background(), f.memberT)
	if kind := apperr.KindOf(err); kind != apperr.Forbidden {
		t.Errorf("kind: got %s, want forbidden", kind)
	}

	_, err = f.svc.ListPending(context.Background(), "")
	if kind := apperr.KindOf(err); kind != apperr.Unauthorized {
		t.Errorf("kind: got %s, want unauthorized", kind)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	user := f.seedPending(t, "Suresh Nair", "502", "suresh@example.com")

	// Record exists but is pending, not approved
	result, err := f.svc.ForgotPassword(ctx, "suresh@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	if !result.Success {
		t.Error("expected generic success")
	}
	if len(f.mailer.sent) != 0 {
		t.Errorf("expected no email, got %d", len(f.mailer.sent))
	}
	stored, _ := f.store.GetMCUser(ctx, user.ID)
	if stored.TempPassword != "" {
		t.Errorf("record mutated: temp password %q", stored.TempPassword)
	}

	// Entirely unknown email: same shape
	result, err = f.svc.ForgotPassword(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	if !result.Success {
		t.Error("expected generic success")
	}
}

func TestForgotPasswordRotatesTempPassword(t *testing.T) {
	f := newApprovalFixture(t)
	ctx := context.Background()
	user := f.seedPending(t, "Suresh Nair", "502", "suresh@example.com")
	if _, err := f.svc.Decide(ctx, f.token, &ApprovalRequest{MCUserID: user.ID, Action: ActionApprove}); err != nil {
		t.Fatalf("approval failed: %v", err)
	}
	approved, _ := f.store.GetMCUser(ctx, user.ID)

	result, err := f.svc.ForgotPassword(ctx, "suresh@example.com")
	if err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	if !result.Success {
		t.Error("expected success")
	}

	stored, _ := f.store.GetMCUser(ctx, user.ID)
	if stored.TempPassword == approved.TempPassword {
		t.Error("temp password was not rotated")
	}
	if len(stored.TempPassword) != 12 {
		t.Errorf("temp password length: got %d", len(stored.TempPassword))
	}
	// Username and approval metadata untouched
	if stored.LoginUsername != approved.LoginUsername || stored.ApprovedAt != approved.ApprovedAt {
		t.Error("reset touched approval metadata")
	}

	// Approval email + reset email
	if len(f.mailer.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(f.mailer.sent))
	}
	if !strings.Contains(f.mailer.sent[1].HTMLBody, stored.TempPassword) {
		t.Error("reset email missing new temp password")
	}
}
