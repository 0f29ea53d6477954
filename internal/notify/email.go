package notify

import (
	"context"
	"fmt"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/wneessen/go-mail"
)

type EmailSender struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	AdminAddr string
}

func (s *EmailSender) Send(ctx context.Context, msg Message) error {
	to := msg.To
	if to == "" {
		to = s.AdminAddr
	}
	if to == "" {
		return fmt.Errorf("%w: no recipient configured", apperr.ErrNotification)
	}

	m := mail.NewMsg()
	if err := m.From(s.From); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrNotification, err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrNotification, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	c, err := mail.NewClient(s.Host,
		mail.WithPort(s.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.Username),
		mail.WithPassword(s.Password),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrNotification, err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrNotification, err)
	}
	return nil
}
