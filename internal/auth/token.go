package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hodastore/store-api/internal/apperr"
)

type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenStrategy issues signed, time-limited bearer tokens carrying the
// subject id and role. Logout is a no-op: tokens expire, they are not revoked.
type TokenStrategy struct {
	Creds  CredentialStore
	Secret []byte
	TTL    time.Duration
	Issuer string
}

func (t *TokenStrategy) Login(ctx context.Context, username, password string) (Identity, Credential, error) {
	ident, err := t.Creds.Verify(ctx, username, password)
	if err != nil {
		return Identity{}, Credential{}, err
	}
	now := time.Now().UTC()
	claims := tokenClaims{
		Username: ident.Username,
		Role:     string(ident.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(ident.UserID, 10),
			Issuer:    t.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	if err != nil {
		return Identity{}, Credential{}, err
	}
	return ident, Credential{Token: signed}, nil
}

func (t *TokenStrategy) Identify(ctx context.Context, r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}, fmt.Errorf("%w: missing token", apperr.ErrUnauthenticated)
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return Identity{}, fmt.Errorf("%w: malformed authorization header", apperr.ErrUnauthenticated)
	}

	var claims tokenClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, fmt.Errorf("%w: invalid or expired token", apperr.ErrForbidden)
	}

	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: bad subject", apperr.ErrForbidden)
	}
	return Identity{UserID: uid, Username: claims.Username, Role: Role(claims.Role)}, nil
}

func (t *TokenStrategy) Logout(ctx context.Context, r *http.Request) error { return nil }
