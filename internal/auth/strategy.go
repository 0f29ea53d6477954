package auth

import (
	"context"
	"net/http"
)

// Credential is whatever the client must present on subsequent requests:
// a bearer token in token mode, a cookie in session mode.
type Credential struct {
	Token  string
	Cookie *http.Cookie
}

type Strategy interface {
	Login(ctx context.Context, username, password string) (Identity, Credential, error)
	Identify(ctx context.Context, r *http.Request) (Identity, error)
	Logout(ctx context.Context, r *http.Request) error
}
