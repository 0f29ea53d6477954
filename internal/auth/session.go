package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hodastore/store-api/internal/apperr"
	"github.com/hodastore/store-api/internal/redisx"
	"github.com/redis/go-redis/v9"
)

const SessionCookie = "store_session"

type SessionStore interface {
	Put(ctx context.Context, id string, ident Identity, ttl time.Duration) error
	Get(ctx context.Context, id string) (Identity, error)
	Del(ctx context.Context, id string) error
}

type RedisSessionStore struct{ Client *redis.Client }

func (s *RedisSessionStore) Put(ctx context.Context, id string, ident Identity, ttl time.Duration) error {
	b, err := json.Marshal(ident)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeySession, id)
	if err := s.Client.Set(ctx, key, b, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (Identity, error) {
	key := fmt.Sprintf(redisx.KeySession, id)
	raw, err := s.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return Identity{}, fmt.Errorf("%w: session expired", apperr.ErrForbidden)
	}
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", apperr.ErrStorage, err)
	}
	var ident Identity
	if err := json.Unmarshal([]byte(raw), &ident); err != nil {
		return Identity{}, fmt.Errorf("%w: bad session", apperr.ErrForbidden)
	}
	return ident, nil
}

func (s *RedisSessionStore) Del(ctx context.Context, id string) error {
	return s.Client.Del(ctx, fmt.Sprintf(redisx.KeySession, id)).Err()
}

// SessionStrategy is the single-admin deployment mode: a successful login
// stores a server-side session and hands the client an opaque cookie.
type SessionStrategy struct {
	Creds    CredentialStore
	Sessions SessionStore
	TTL      time.Duration
}

func (s *SessionStrategy) Login(ctx context.Context, username, password string) (Identity, Credential, error) {
	ident, err := s.Creds.Verify(ctx, username, password)
	if err != nil {
		return Identity{}, Credential{}, err
	}
	sid := uuid.NewString()
	if err := s.Sessions.Put(ctx, sid, ident, s.TTL); err != nil {
		return Identity{}, Credential{}, err
	}
	cookie := &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.TTL.Seconds()),
	}
	return ident, Credential{Cookie: cookie}, nil
}

func (s *SessionStrategy) Identify(ctx context.Context, r *http.Request) (Identity, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return Identity{}, fmt.Errorf("%w: no session", apperr.ErrUnauthenticated)
	}
	return s.Sessions.Get(ctx, c.Value)
}

func (s *SessionStrategy) Logout(ctx context.Context, r *http.Request) error {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return fmt.Errorf("%w: no session", apperr.ErrUnauthenticated)
	}
	return s.Sessions.Del(ctx, c.Value)
}
