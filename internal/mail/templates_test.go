package mail

import (
	"strings"
	"testing"
)

func TestApprovalMessage(t *testing.T) {
	msg, err := ApprovalMessage("Ravi Kumar", "ravi@example.com", "4", "402",
		"Ravi-402@mc-2527", "Abc23456789x", []string{"Finance", "Sports"})
	if err != nil {
		t.Fatalf("ApprovalMessage failed: %v", err)
	}

	if msg.To != "ravi@example.com" {
		t.Errorf("To: got %q", msg.To)
	}
	for _, want := range []string{"Ravi-402@mc-2527", "Abc23456789x", "Finance", "Sports", "4-402"} {
		if !strings.Contains(msg.HTMLBody, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRejectionMessageOmitsCredentials(t *testing.T) {
	msg, err := RejectionMessage("Ravi Kumar", "ravi@example.com", "Incomplete application")
	if err != nil {
		t.Fatalf("RejectionMessage failed: %v", err)
	}
	if !strings.Contains(msg.HTMLBody, "Incomplete application") {
		t.Error("body missing rejection reason")
	}
	if strings.Contains(msg.HTMLBody, "Password") {
		t.Error("rejection email must not mention credentials")
	}
}

func TestRejectionMessageWithoutReasonOmitsBlock(t *testing.T) {
	msg, err := RejectionMessage("Ravi Kumar", "ravi@example.com", "")
	if err != nil {
		t.Fatalf("RejectionMessage failed: %v", err)
	}
	if strings.Contains(msg.HTMLBody, "Reason:") {
		t.Error("empty reason must not render a reason block")
	}
}

func TestResetMessage(t *testing.T) {
	msg, err := ResetMessage("Anita Shah", "anita@example.com", "Anita-1203@mc-2527", "Xyz23456789w")
	if err != nil {
		t.Fatalf("ResetMessage failed: %v", err)
	}
	if !strings.Contains(msg.HTMLBody, "Anita-1203@mc-2527") || !strings.Contains(msg.HTMLBody, "Xyz23456789w") {
		t.Error("body missing credentials")
	}
	if msg.Subject != resetSubject {
		t.Errorf("Subject: got %q", msg.Subject)
	}
}
