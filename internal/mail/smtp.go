package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/pbv-society/societyhub/internal/config"
)

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	client  *gomail.Client
	from    string
	replyTo string
}

// NewSMTPMailer creates a mailer from SMTP configuration.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	replyTo := cfg.ReplyTo
	if replyTo == "" {
		replyTo = cfg.From
	}

	return &SMTPMailer{
		client:  client,
		from:    cfg.From,
		replyTo: replyTo,
	}, nil
}

// Send delivers one message. No retries: a failed send surfaces to the
// caller and the operator re-invokes the workflow.
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	mail := gomail.NewMsg()
	if err := mail.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := mail.ReplyTo(m.replyTo); err != nil {
		return fmt.Errorf("invalid reply-to address: %w", err)
	}
	if err := mail.AddToFormat(msg.ToName, msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	mail.Subject(msg.Subject)
	mail.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)

	if err := m.client.DialAndSendWithContext(ctx, mail); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
