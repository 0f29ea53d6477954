package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/hodastore/store-api/internal/redisx"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// CredentialStore verifies a login and supports rotation. Rotation never
// rewrites process configuration; the session-mode store keeps the current
// hash in redis so a rotated password survives restarts.
type CredentialStore interface {
	Verify(ctx context.Context, username, password string) (Identity, error)
	Rotate(ctx context.Context, username, newPassword string) error
}

// AdminCredentials backs the single configured admin of session deployments.
// SeedHash comes from config and applies until the first rotation.
type AdminCredentials struct {
	Client   *redis.Client
	Username string
	SeedHash string
}

func (a *AdminCredentials) Verify(ctx context.Context, username, password string) (Identity, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) != 1 {
		return Identity{}, fmt.Errorf("%w: bad credentials", apperr.ErrUnauthenticated)
	}
	hash, err := a.currentHash(ctx)
	if err != nil {
		return Identity{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Identity{}, fmt.Errorf("%w: bad credentials", apperr.ErrUnauthenticated)
	}
	return Identity{Username: a.Username, Role: RoleAdmin}, nil
}

func (a *AdminCredentials) Rotate(ctx context.Context, username, newPassword string) error {
	if username != a.Username {
		return fmt.Errorf("%w: unknown user", apperr.ErrNotFound)
	}
	if newPassword == "" {
		return fmt.Errorf("%w: password required", apperr.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := a.Client.Set(ctx, redisx.KeyAdminCredential, string(hash), 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return nil
}

func (a *AdminCredentials) currentHash(ctx context.Context) (string, error) {
	hash, err := a.Client.Get(ctx, redisx.KeyAdminCredential).Result()
	if errors.Is(err, redis.Nil) {
		return a.SeedHash, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return hash, nil
}

// UserCredentials backs token deployments with per-user accounts.
type UserCredentials struct {
	Users UserStore
}

func (u *UserCredentials) Verify(ctx context.Context, username, password string) (Identity, error) {
	usr, err := u.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Identity{}, fmt.Errorf("%w: bad credentials", apperr.ErrUnauthenticated)
		}
		return Identity{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return Identity{}, fmt.Errorf("%w: bad credentials", apperr.ErrUnauthenticated)
	}
	return Identity{UserID: usr.ID, Username: usr.Username, Role: usr.Role}, nil
}

func (u *UserCredentials) Rotate(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: password required", apperr.ErrValidation)
	}
	usr, err := u.Users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return u.Users.UpdatePassword(ctx, usr.ID, string(hash))
}

// HashPassword is used at registration and by seed tooling.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}
