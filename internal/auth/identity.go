// Package auth resolves a requester identity from an HTTP request and gates
// protected operations. Two strategies exist: redis-backed admin sessions and
// signed bearer tokens with per-user accounts. Exactly one is selected at
// startup.
package auth

import (
	"context"
	"fmt"

	"github.com/hodastore/store-api/internal/apperr"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the requester context derived from a credential.
// UserID is zero in session mode, which has a single admin identity.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok {
		return Identity{}, apperr.ErrUnauthenticated
	}
	return id, nil
}

// RequireRole fails closed: no identity on the context means deny.
// Every mutating admin operation calls this before touching storage.
func RequireRole(ctx context.Context, role Role) error {
	id, err := FromContext(ctx)
	if err != nil {
		return err
	}
	if id.Role != role {
		return fmt.Errorf("%w: %s role required", apperr.ErrForbidden, role)
	}
	return nil
}
