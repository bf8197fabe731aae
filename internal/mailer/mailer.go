// Package mailer delivers transactional mail for the store, currently just
// contact form submissions forwarded to the admin inbox.
package mailer

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// ContactMessage is a storefront contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// Mailer sends store mail.
type Mailer interface {
	SendContact(ctx context.Context, msg ContactMessage) error
}

// SMTPConfig holds connection details for an SMTP relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

var _ Mailer = (*SMTPMailer)(nil)

// SMTPMailer delivers mail over an authenticated SMTP connection.
type SMTPMailer struct {
	client *mail.Client
	from   string
	to     string
}

// NewSMTPMailer dials nothing up front; the connection is established per
// send.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating smtp client")
	}
	return &SMTPMailer{client: client, from: cfg.From, to: cfg.To}, nil
}

func (m *SMTPMailer) SendContact(ctx context.Context, msg ContactMessage) error {
	mm := mail.NewMsg()
	if err := mm.From(m.from); err != nil {
		return errors.Wrap(err, "setting sender")
	}
	if err := mm.To(m.to); err != nil {
		return errors.Wrap(err, "setting recipient")
	}
	if err := mm.ReplyTo(msg.Email); err != nil {
		return errors.Wrap(err, "setting reply-to")
	}
	mm.Subject(fmt.Sprintf("Contact form: %s", msg.Subject))
	mm.SetBodyString(mail.TypeTextPlain,
		fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Body))

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return errors.Wrap(err, "sending contact mail")
	}
	return nil
}

var _ Mailer = (*NopMailer)(nil)

// NopMailer logs instead of sending, for environments without SMTP.
type NopMailer struct{}

func (NopMailer) SendContact(ctx context.Context, msg ContactMessage) error {
	zctx.From(ctx).Info("Contact mail suppressed, no SMTP configured",
		zap.String("from", msg.Email),
		zap.String("subject", msg.Subject),
	)
	return nil
}
