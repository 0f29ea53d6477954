package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/hodastore/store-api/internal/auth"
	"github.com/hodastore/store-api/internal/notify"
)

type Store interface {
	CreateInquiry(ctx context.Context, name, email, message string) (Inquiry, error)
	GetInquiry(ctx context.Context, id int64) (Inquiry, error)
	ListInquiries(ctx context.Context) ([]Inquiry, error)
	MarkReplied(ctx context.Context, id int64) error
	DeleteInquiry(ctx context.Context, id int64) error

	CreateSuggestion(ctx context.Context, name, contact, message string) (Suggestion, error)
	ListSuggestions(ctx context.Context) ([]Suggestion, error)
	DeleteSuggestion(ctx context.Context, id int64) error
}

// Service couples feedback persistence with outbound notifications.
// Creation notifies the admin via the dispatcher and always succeeds even if
// delivery later fails. Replying is the exception: the customer email goes
// out synchronously first, and the status only advances when it succeeded.
type Service struct {
	Store       Store
	Dispatch    notify.Enqueuer // best-effort admin notifications; may be nil
	Notifier    notify.Notifier // synchronous customer sends
	SendTimeout time.Duration
}

func (s *Service) CreateInquiry(ctx context.Context, name, email, message string) (Inquiry, error) {
	if name == "" || email == "" || message == "" {
		return Inquiry{}, fmt.Errorf("%w: name, email and message are required", apperr.ErrValidation)
	}
	q, err := s.Store.CreateInquiry(ctx, name, email, message)
	if err != nil {
		return Inquiry{}, err
	}
	if s.Dispatch != nil {
		s.Dispatch.Enqueue(notify.Message{
			Channel: notify.ChannelEmail,
			Subject: "New customer inquiry",
			Body:    fmt.Sprintf("From: %s <%s>\n\n%s", q.Name, q.Email, q.Message),
		})
	}
	return q, nil
}

func (s *Service) CreateSuggestion(ctx context.Context, name, contact, message string) (Suggestion, error) {
	if name == "" || contact == "" || message == "" {
		return Suggestion{}, fmt.Errorf("%w: name, contact and message are required", apperr.ErrValidation)
	}
	sg, err := s.Store.CreateSuggestion(ctx, name, contact, message)
	if err != nil {
		return Suggestion{}, err
	}
	if s.Dispatch != nil {
		s.Dispatch.Enqueue(notify.Message{
			Channel: notify.ChannelEmail,
			Subject: "New suggestion",
			Body:    fmt.Sprintf("From: %s (%s)\n\n%s", sg.Name, sg.Contact, sg.Message),
		})
	}
	return sg, nil
}

func (s *Service) ListInquiries(ctx context.Context) ([]Inquiry, error) {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}
	return s.Store.ListInquiries(ctx)
}

func (s *Service) ListSuggestions(ctx context.Context) ([]Suggestion, error) {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return nil, err
	}
	return s.Store.ListSuggestions(ctx)
}

func (s *Service) DeleteInquiry(ctx context.Context, id int64) error {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return err
	}
	return s.Store.DeleteInquiry(ctx, id)
}

func (s *Service) DeleteSuggestion(ctx context.Context, id int64) error {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return err
	}
	return s.Store.DeleteSuggestion(ctx, id)
}

// ReplyInquiry emails the customer and then marks the inquiry replied.
// A failed send leaves the status untouched so the admin can retry.
func (s *Service) ReplyInquiry(ctx context.Context, id int64, reply string) error {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return err
	}
	if reply == "" {
		return fmt.Errorf("%w: reply is required", apperr.ErrValidation)
	}
	q, err := s.Store.GetInquiry(ctx, id)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.SendTimeout)
	defer cancel()
	err = s.Notifier.Send(sendCtx, notify.Message{
		Channel: notify.ChannelEmail,
		To:      q.Email,
		Subject: "Reply to your inquiry",
		Body:    fmt.Sprintf("Your inquiry:\n%s\n\nOur reply:\n%s", q.Message, reply),
	})
	if err != nil {
		return err
	}
	return s.Store.MarkReplied(ctx, id)
}

// SendMessage is the admin's direct line to a customer.
func (s *Service) SendMessage(ctx context.Context, email, subject, body string) error {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return err
	}
	if email == "" || subject == "" || body == "" {
		return fmt.Errorf("%w: email, subject and message are required", apperr.ErrValidation)
	}
	sendCtx, cancel := context.WithTimeout(ctx, s.SendTimeout)
	defer cancel()
	return s.Notifier.Send(sendCtx, notify.Message{
		Channel: notify.ChannelEmail,
		To:      email,
		Subject: subject,
		Body:    body,
	})
}
