package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memSessions struct {
	m map[string]Identity
}

func newMemSessions() *memSessions { return &memSessions{m: map[string]Identity{}} }

func (s *memSessions) Put(ctx context.Context, id string, ident Identity, ttl time.Duration) error {
	s.m[id] = ident
	return nil
}

func (s *memSessions) Get(ctx context.Context, id string) (Identity, error) {
	ident, ok := s.m[id]
	if !ok {
		return Identity{}, fmt.Errorf("%w: session expired", apperr.ErrForbidden)
	}
	return ident, nil
}

func (s *memSessions) Del(ctx context.Context, id string) error {
	delete(s.m, id)
	return nil
}

func newSessionStrategy(t *testing.T, sessions SessionStore) *SessionStrategy {
	t.Helper()
	return &SessionStrategy{
		Creds: &staticCreds{
			username: "admin",
			password: "hunter2",
			ident:    Identity{Username: "admin", Role: RoleAdmin},
		},
		Sessions: sessions,
		TTL:      time.Hour,
	}
}

func cookieReq(c *http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	if c != nil {
		r.AddCookie(c)
	}
	return r
}

func TestSessionLoginSetsCookie(t *testing.T) {
	sessions := newMemSessions()
	strat := newSessionStrategy(t, sessions)

	ident, cred, err := strat.Login(context.Background(), "admin", "hunter2")
	require.NoError(t, err)
	require.NotNil(t, cred.Cookie)
	assert.Equal(t, SessionCookie, cred.Cookie.Name)
	assert.True(t, cred.Cookie.HttpOnly)
	assert.Equal(t, RoleAdmin, ident.Role)

	got, err := strat.Identify(context.Background(), cookieReq(cred.Cookie))
	require.NoError(t, err)
	assert.Equal(t, ident, got)
}

func TestSessionLoginBadPassword(t *testing.T) {
	strat := newSessionStrategy(t, newMemSessions())
	_, _, err := strat.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestSessionIdentifyNoCookie(t *testing.T) {
	strat := newSessionStrategy(t, newMemSessions())
	_, err := strat.Identify(context.Background(), cookieReq(nil))
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestSessionIdentifyUnknownSession(t *testing.T) {
	strat := newSessionStrategy(t, newMemSessions())
	c := &http.Cookie{Name: SessionCookie, Value: "gone"}
	_, err := strat.Identify(context.Background(), cookieReq(c))
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestSessionLogout(t *testing.T) {
	sessions := newMemSessions()
	strat := newSessionStrategy(t, sessions)

	_, cred, err := strat.Login(context.Background(), "admin", "hunter2")
	require.NoError(t, err)

	require.NoError(t, strat.Logout(context.Background(), cookieReq(cred.Cookie)))
	_, err = strat.Identify(context.Background(), cookieReq(cred.Cookie))
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

type memUsers struct {
	nextID int64
	byName map[string]User
}

func newMemUsers() *memUsers { return &memUsers{byName: map[string]User{}} }

func (m *memUsers) Create(ctx context.Context, username, passwordHash string, role Role) (User, error) {
	if _, ok := m.byName[username]; ok {
		return User{}, fmt.Errorf("%w: username already taken", apperr.ErrValidation)
	}
	m.nextID++
	u := User{ID: m.nextID, Username: username, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now()}
	m.byName[username] = u
	return u, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (User, error) {
	u, ok := m.byName[username]
	if !ok {
		return User{}, fmt.Errorf("%w: user %s", apperr.ErrNotFound, username)
	}
	return u, nil
}

func (m *memUsers) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	for name, u := range m.byName {
		if u.ID == id {
			u.PasswordHash = passwordHash
			m.byName[name] = u
			return nil
		}
	}
	return fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
}

func TestUserCredentials(t *testing.T) {
	users := newMemUsers()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = users.Create(context.Background(), "ahmed", string(hash), RoleUser)
	require.NoError(t, err)

	creds := &UserCredentials{Users: users}

	ident, err := creds.Verify(context.Background(), "ahmed", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "ahmed", ident.Username)
	assert.Equal(t, RoleUser, ident.Role)

	_, err = creds.Verify(context.Background(), "ahmed", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = creds.Verify(context.Background(), "nobody", "hunter2")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestUserCredentialsRotate(t *testing.T) {
	users := newMemUsers()
	hash, err := bcrypt.GenerateFromPassword([]byte("old"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = users.Create(context.Background(), "ahmed", string(hash), RoleUser)
	require.NoError(t, err)

	creds := &UserCredentials{Users: users}
	require.NoError(t, creds.Rotate(context.Background(), "ahmed", "new"))

	_, err = creds.Verify(context.Background(), "ahmed", "old")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, err = creds.Verify(context.Background(), "ahmed", "new")
	assert.NoError(t, err)

	err = creds.Rotate(context.Background(), "ahmed", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
