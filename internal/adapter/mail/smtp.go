// Package mail delivers queued notification emails over SMTP.
package mail

import (
	"context"
	"fmt"
	"time"

	"art-marketplace/config"
	"art-marketplace/internal/core/domain"

	gomail "github.com/wneessen/go-mail"
)

const dialTimeout = 10 * time.Second

// SMTPSender implements ports.MailSender.
type SMTPSender struct {
	client *gomail.Client
	from   string
	now    func() time.Time
}

// NewSMTPSender builds a sender from mail config. STARTTLS is used when the
// server offers it, and PLAIN auth only when a username is set.
func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithTimeout(dialTimeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From, now: time.Now}, nil
}

// Send delivers msg. The context bounds the whole SMTP conversation.
func (s *SMTPSender) Send(ctx context.Context, msg domain.EmailMessage) error {
	if msg.To == "" {
		return fmt.Errorf("send %s email: empty recipient", msg.Kind)
	}

	m, err := s.compose(msg)
	if err != nil {
		return fmt.Errorf("compose %s email: %w", msg.Kind, err)
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp deliver to %s: %w", msg.To, err)
	}
	return nil
}

func (s *SMTPSender) compose(msg domain.EmailMessage) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("from %q: %w", s.from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("to %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetDateWithValue(s.now().UTC())
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return m, nil
}
