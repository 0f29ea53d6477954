package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/hodastore/store-api/internal/apperr"
	"github.com/hodastore/store-api/internal/auth"
	"github.com/hodastore/store-api/internal/catalog"
	"github.com/hodastore/store-api/internal/events"
	"github.com/hodastore/store-api/internal/feedback"
	"github.com/hodastore/store-api/internal/notify"
	"github.com/hodastore/store-api/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	nextID int64
	byName map[string]auth.User
}

func (m *memUsers) Create(ctx context.Context, username, passwordHash string, role auth.Role) (auth.User, error) {
	if _, ok := m.byName[username]; ok {
		return auth.User{}, fmt.Errorf("%w: username already taken", apperr.ErrValidation)
	}
	m.nextID++
	u := auth.User{ID: m.nextID, Username: username, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now()}
	m.byName[username] = u
	return u, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (auth.User, error) {
	u, ok := m.byName[username]
	if !ok {
		return auth.User{}, fmt.Errorf("%w: user %s", apperr.ErrNotFound, username)
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

type memOrders struct {
	nextID int64
	byID   map[int64]orders.Order
}

func (m *memOrders) Create(ctx context.Context, o orders.Order) (orders.Order, error) {
	m.nextID++
	o.ID = m.nextID
	o.CreatedAt = time.Now()
	m.byID[o.ID] = o
	return o, nil
}

func (m *memOrders) Get(ctx context.Context, id int64) (orders.Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return orders.Order{}, fmt.Errorf("%w: order %d", apperr.ErrNotFound, id)
	}
	return o, nil
}

func (m *memOrders) ListAll(ctx context.Context) ([]orders.Order, error) {
	var out []orders.Order
	for _, o := range m.byID {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memOrders) ListByOwner(ctx context.Context, ownerID int64) ([]orders.Order, error) {
	var out []orders.Order
	for _, o := range m.byID {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memOrders) UpdateStatusFrom(ctx context.Context, id int64, from, to orders.Status) error {
	o, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: order %d", apperr.ErrNotFound, id)
	}
	if o.Status != from {
		return fmt.Errorf("%w: order %d moved out of %s", apperr.ErrValidation, id, from)
	}
	o.Status = to
	m.byID[id] = o
	return nil
}

func (m *memOrders) Delete(ctx context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("%w: order %d", apperr.ErrNotFound, id)
	}
	delete(m.byID, id)
	return nil
}

type memProducts struct {
	nextID int64
	byID   map[int64]catalog.Product
}

func (m *memProducts) Create(ctx context.Context, in catalog.ProductInput) (catalog.Product, error) {
	m.nextID++
	p := catalog.Product{
		ID: m.nextID, Name: in.Name, Category: in.Category,
		UCAmount: in.UCAmount, Price: in.Price, ImageURL: in.ImageURL,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.byID[p.ID] = p
	return p, nil
}

func (m *memProducts) Update(ctx context.Context, id int64, in catalog.ProductInput) (catalog.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return catalog.Product{}, fmt.Errorf("%w: product %d", apperr.ErrNotFound, id)
	}
	p.Name, p.Category, p.UCAmount, p.Price, p.ImageURL = in.Name, in.Category, in.UCAmount, in.Price, in.ImageURL
	p.UpdatedAt = time.Now()
	m.byID[id] = p
	return p, nil
}

func (m *memProducts) Delete(ctx context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("%w: product %d", apperr.ErrNotFound, id)
	}
	delete(m.byID, id)
	return nil
}

func (m *memProducts) Get(ctx context.Context, id int64) (catalog.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return catalog.Product{}, fmt.Errorf("%w: product %d", apperr.ErrNotFound, id)
	}
	return p, nil
}

func (m *memProducts) List(ctx context.Context) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range m.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memFeedback struct {
	nextID      int64
	inquiries   map[int64]feedback.Inquiry
	suggestions map[int64]feedback.Suggestion
}

func (m *memFeedback) CreateInquiry(ctx context.Context, name, email, message string) (feedback.Inquiry, error) {
	m.nextID++
	q := feedback.Inquiry{ID: m.nextID, Name: name, Email: email, Message: message, Status: feedback.InquiryPending, CreatedAt: time.Now()}
	m.inquiries[q.ID] = q
	return q, nil
}

func (m *memFeedback) GetInquiry(ctx context.Context, id int64) (feedback.Inquiry, error) {
	q, ok := m.inquiries[id]
	if !ok {
		return feedback.Inquiry{}, fmt.Errorf("%w: inquiry %d", apperr.ErrNotFound, id)
	}
	return q, nil
}

func (m *memFeedback) ListInquiries(ctx context.Context) ([]feedback.Inquiry, error) {
	var out []feedback.Inquiry
	for _, q := range m.inquiries {
		out = append(out, q)
	}
	return out, nil
}

func (m *memFeedback) MarkReplied(ctx context.Context, id int64) error {
	q, ok := m.inquiries[id]
	if !ok {
		return fmt.Errorf("%w: inquiry %d", apperr.ErrNotFound, id)
	}
	q.Status = feedback.InquiryReplied
	m.inquiries[id] = q
	return nil
}

func (m *memFeedback) DeleteInquiry(ctx context.Context, id int64) error {
	delete(m.inquiries, id)
	return nil
}

func (m *memFeedback) CreateSuggestion(ctx context.Context, name, contact, message string) (feedback.Suggestion, error) {
	m.nextID++
	sg := feedback.Suggestion{ID: m.nextID, Name: name, Contact: contact, Message: message, CreatedAt: time.Now()}
	m.suggestions[sg.ID] = sg
	return sg, nil
}

func (m *memFeedback) ListSuggestions(ctx context.Context) ([]feedback.Suggestion, error) {
	var out []feedback.Suggestion
	for _, sg := range m.suggestions {
		out = append(out, sg)
	}
	return out, nil
}

func (m *memFeedback) DeleteSuggestion(ctx context.Context, id int64) error {
	delete(m.suggestions, id)
	return nil
}

type okNotifier struct{}

func (okNotifier) Send(ctx context.Context, m notify.Message) error { return nil }

type testEnv struct {
	srv      *httptest.Server
	orders   *memOrders
	users    *memUsers
	feedback *memFeedback
}

// newTestEnv stands up the API in token mode over in-memory stores, with an
// admin and a regular customer already registered.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := &memUsers{byName: map[string]auth.User{}}
	seed := func(name, pass string, role auth.Role) {
		hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.MinCost)
		require.NoError(t, err)
		_, err = users.Create(context.Background(), name, string(hash), role)
		require.NoError(t, err)
	}
	seed("admin", "adminpass", auth.RoleAdmin)
	seed("ahmed", "userpass", auth.RoleUser)

	creds := &auth.UserCredentials{Users: users}
	strat := &auth.TokenStrategy{Creds: creds, Secret: []byte("test-secret"), TTL: time.Hour, Issuer: "store-api"}

	ordersStore := &memOrders{byID: map[int64]orders.Order{}}
	feedbackStore := &memFeedback{inquiries: map[int64]feedback.Inquiry{}, suggestions: map[int64]feedback.Suggestion{}}
	api := &API{
		Strategy: strat,
		Users:    users,
		Creds:    creds,
		Orders: &orders.Service{
			Store:        ordersStore,
			Resolver:     orders.InlineResolver{},
			Events:       events.Nop{},
			ScopeToOwner: true,
		},
		Catalog:            &catalog.Service{Store: &memProducts{byID: map[int64]catalog.Product{}}},
		Feedback:           &feedback.Service{Store: feedbackStore, Notifier: okNotifier{}, SendTimeout: time.Second},
		RequireAuthToOrder: true,
	}

	r := NewRouter()
	api.Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, orders: ordersStore, users: users, feedback: feedbackStore}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp, env := e.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func orderBody() map[string]any {
	return map[string]any{
		"customer_name":  "Ahmed",
		"player_id":      "5123456789",
		"email":          "ahmed@example.com",
		"uc_amount":      660,
		"total_amount":   "9.99",
		"transaction_id": "TX-1001",
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	resp, out := env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, out.Success)
}

func TestCreateOrderRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodPost, "/api/orders", "", orderBody())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, env.orders.byID)
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "ahmed", "userpass")

	body := orderBody()
	delete(body, "transaction_id")
	resp, out := env.do(t, http.MethodPost, "/api/orders", token, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out.Error, "transaction_id")

	body = orderBody()
	body["bundle_name"] = "Royale Pass"
	resp, _ = env.do(t, http.MethodPost, "/api/orders", token, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, env.orders.byID)
}

func TestOrderLifecycle(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.login(t, "ahmed", "userpass")
	adminToken := env.login(t, "admin", "adminpass")

	resp, out := env.do(t, http.MethodPost, "/api/orders", userToken, orderBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created, ok := out.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(orders.StatusAwaitingPayment), created["status"])
	id := int64(created["id"].(float64))

	// non-admin may not move the lifecycle
	resp, _ = env.do(t, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", id), userToken,
		map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	stored, err := env.orders.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusAwaitingPayment, stored.Status)

	resp, _ = env.do(t, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", id), adminToken,
		map[string]string{"status": "paid"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// the lifecycle never moves backwards
	resp, _ = env.do(t, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", id), adminToken,
		map[string]string{"status": "awaiting_payment"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", id), adminToken,
		map[string]string{"status": "delivered"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	stored, err = env.orders.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusDelivered, stored.Status)
}

func TestListOrdersScoping(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.login(t, "ahmed", "userpass")
	adminToken := env.login(t, "admin", "adminpass")

	resp, _ := env.do(t, http.MethodPost, "/api/orders", userToken, orderBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, "/api/orders", adminToken, orderBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, out := env.do(t, http.MethodGet, "/api/orders", userToken, nil)
	userOrders, ok := out.Data.([]any)
	require.True(t, ok)
	assert.Len(t, userOrders, 1)

	_, out = env.do(t, http.MethodGet, "/api/orders", adminToken, nil)
	adminOrders, ok := out.Data.([]any)
	require.True(t, ok)
	assert.Len(t, adminOrders, 2)

	resp, _ = env.do(t, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, out := env.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "sara", "password": "sarapass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data, ok := out.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sara", data["username"])
	assert.Equal(t, string(auth.RoleUser), data["role"])

	env.login(t, "sara", "sarapass")

	resp, _ = env.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": "sara", "password": "again",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProductAdminGating(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.login(t, "ahmed", "userpass")
	adminToken := env.login(t, "admin", "adminpass")

	product := map[string]any{"name": "660 UC", "category": "uc", "uc_amount": 660, "price": "9.99"}

	resp, _ := env.do(t, http.MethodPost, "/api/admin/products", userToken, product)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/admin/products", adminToken, product)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, out := env.do(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list, ok := out.Data.([]any)
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "adminpass")

	resp, _ := env.do(t, http.MethodPost, "/api/admin/change-password", adminToken,
		map[string]string{"new_password": "rotated"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "admin", "password": "adminpass",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env.login(t, "admin", "rotated")
}

func TestInquiryFlow(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.login(t, "admin", "adminpass")

	resp, out := env.do(t, http.MethodPost, "/api/inquiries", "", map[string]string{
		"name": "Ahmed", "email": "ahmed@example.com", "message": "Where is my order?",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data, ok := out.Data.(map[string]any)
	require.True(t, ok)
	id := int64(data["id"].(float64))

	// the moderation surface is admin-only
	resp, _ = env.do(t, http.MethodGet, "/api/admin/inquiries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, out = env.do(t, http.MethodGet, "/api/admin/inquiries", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list, ok := out.Data.([]any)
	require.True(t, ok)
	assert.Len(t, list, 1)

	resp, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/admin/inquiries/%d/reply", id), adminToken,
		map[string]string{"reply": "It ships today"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	q, err := env.feedback.GetInquiry(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, feedback.InquiryReplied, q.Status)
}
