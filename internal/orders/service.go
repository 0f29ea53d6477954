package orders

import (
	"context"
	"fmt"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/hodastore/store-api/internal/auth"
	"github.com/hodastore/store-api/internal/events"
	"github.com/hodastore/store-api/internal/notify"
)

type Store interface {
	Create(ctx context.Context, o Order) (Order, error)
	Get(ctx context.Context, id int64) (Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Order, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to Status) error
	Delete(ctx context.Context, id int64) error
}

// Service owns the order lifecycle. ScopeToOwner is true in token
// deployments: orders get an owner and non-admin listing is owner-scoped. In
// session deployments there is no user identity, so creation is public and
// listing is admin-only.
type Service struct {
	Store    Store
	Resolver ProductResolver
	Events   events.Publisher
	Notify   notify.Enqueuer // nil unless new-order notifications are enabled

	ScopeToOwner bool
}

// Create validates the submission, resolves the product scheme, and persists
// with the initial status. TotalAmount and TransactionID are trusted as-is;
// they are proof-of-payment references, not verified amounts.
func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	switch {
	case in.CustomerName == "":
		return Order{}, fmt.Errorf("%w: customer_name is required", apperr.ErrValidation)
	case in.PlayerID == "":
		return Order{}, fmt.Errorf("%w: player_id is required", apperr.ErrValidation)
	case in.Email == "":
		return Order{}, fmt.Errorf("%w: email is required", apperr.ErrValidation)
	case in.TransactionID == "":
		return Order{}, fmt.Errorf("%w: transaction_id is required", apperr.ErrValidation)
	case !in.TotalAmount.IsPositive():
		return Order{}, fmt.Errorf("%w: total_amount must be positive", apperr.ErrValidation)
	}

	res, err := s.Resolver.Resolve(ctx, in)
	if err != nil {
		return Order{}, err
	}

	o := Order{
		CustomerName:  in.CustomerName,
		PlayerID:      in.PlayerID,
		Email:         in.Email,
		Kind:          res.Kind,
		UCAmount:      res.UCAmount,
		BundleName:    res.BundleName,
		TotalAmount:   in.TotalAmount,
		TransactionID: in.TransactionID,
		ScreenshotURL: in.ScreenshotURL,
		Status:        StatusAwaitingPayment,
	}
	if s.ScopeToOwner {
		ident, err := auth.FromContext(ctx)
		if err != nil {
			return Order{}, err
		}
		o.OwnerID = ident.UserID
	}

	stored, err := s.Store.Create(ctx, o)
	if err != nil {
		return Order{}, err
	}

	s.Events.OrderCreated(events.OrderCreatedPayload{
		OrderID:      stored.ID,
		CustomerName: stored.CustomerName,
		Kind:         string(stored.Kind),
		UCAmount:     stored.UCAmount,
		BundleName:   stored.BundleName,
		TotalAmount:  stored.TotalAmount.String(),
		OwnerID:      stored.OwnerID,
	})
	if s.Notify != nil {
		s.Notify.Enqueue(notify.Message{
			Channel: notify.ChannelTelegram,
			Subject: "New order received",
			Body: fmt.Sprintf("Order #%d from %s, total %s",
				stored.ID, stored.CustomerName, stored.TotalAmount.String()),
		})
	}
	return stored, nil
}

// List returns every order newest-first for admins, and only the caller's own
// orders otherwise.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	ident, err := auth.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if ident.Role == auth.RoleAdmin {
		return s.Store.ListAll(ctx)
	}
	if !s.ScopeToOwner {
		return nil, fmt.Errorf("%w: admin role required", apperr.ErrForbidden)
	}
	return s.Store.ListByOwner(ctx, ident.UserID)
}

// UpdateStatus moves an order forward through the lifecycle. Only legal
// transitions are accepted; the store update is guarded on the current status
// so concurrent admin updates cannot race.
func (s *Service) UpdateStatus(ctx context.Context, id int64, next Status) error {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return err
	}
	if !ValidStatus(next) {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, next)
	}
	cur, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(cur.Status, next) {
		return fmt.Errorf("%w: cannot move order from %s to %s", apperr.ErrValidation, cur.Status, next)
	}
	if err := s.Store.UpdateStatusFrom(ctx, id, cur.Status, next); err != nil {
		return err
	}
	s.Events.OrderStatusChanged(events.OrderStatusChangedPayload{
		OrderID: id,
		From:    string(cur.Status),
		To:      string(next),
	})
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := auth.RequireRole(ctx, auth.RoleAdmin); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}
