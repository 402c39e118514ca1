// Package mail renders and delivers portal emails: approval credentials,
// rejection notices, and password resets.
package mail

import "context"

// Message is one outbound email.
type Message struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
}

// Mailer delivers messages. The production implementation speaks SMTP;
// tests substitute a recording fake.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}
