package models

// MCStatus is the lifecycle status of an MC registration.
// The only transitions are pending -> approved and pending -> rejected;
// both terminal states are final.
type MCStatus string

const (
	MCStatusPending  MCStatus = "pending"
	MCStatusApproved MCStatus = "approved"
	MCStatusRejected MCStatus = "rejected"
)

// MCUser represents a Management Committee registration record.
//
// Credential fields (LoginUsername, TempPassword, PasswordHash,
// ApprovedBy, ApprovedAt) are empty while Status is pending and are
// populated by the approval workflow.
type MCUser struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// Name is the member's full name as submitted at registration.
	Name string

	// TowerNo and UnitNo locate the member's flat within the society.
	TowerNo string
	UnitNo  string

	// ContactNumber is the member's phone number.
	ContactNumber string

	// Email is the member's email address. Approval and reset emails
	// are sent here.
	Email string

	// PhotoURL is a reference to the member's uploaded photo.
	PhotoURL string

	// InterestGroups are the committee areas the member volunteered
	// for (e.g. "Finance", "Sports"). Ordering is not significant.
	InterestGroups []string

	// Status is the registration lifecycle state.
	Status MCStatus

	// LoginUsername is the generated portal username, assigned on
	// approval. Unique across all records once set.
	LoginUsername string

	// TempPassword is the current one-time password, set on approval
	// and overwritten by forgot-password resets. Cleared when the
	// member sets a permanent password.
	TempPassword string

	// PasswordHash is the bcrypt hash of the member's permanent
	// password. Empty until the member completes a password change.
	PasswordHash string

	// ApprovedBy is the operator user ID that approved the record.
	ApprovedBy string

	// ApprovedAt is the Unix timestamp of approval.
	ApprovedAt int64

	// RejectionReason is free text recorded on rejection.
	RejectionReason string

	// CreatedAt is the Unix timestamp when the registration was submitted.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last mutation.
	UpdatedAt int64
}
