package httpx

import (
	"fmt"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hodastore/store-api/internal/apperr"
	"github.com/hodastore/store-api/internal/auth"
	"github.com/hodastore/store-api/internal/catalog"
	"github.com/hodastore/store-api/internal/feedback"
	"github.com/hodastore/store-api/internal/orders"
	"github.com/redis/go-redis/v9"
	"net/http"
)

// API wires the services to routes. Users is nil in session deployments,
// which disables registration; RequireAuthToOrder is set in token
// deployments, where every order belongs to the submitting user.
type API struct {
	Strategy auth.Strategy
	Users    auth.UserStore
	Creds    auth.CredentialStore
	Orders   *orders.Service
	Catalog  *catalog.Service
	Feedback *feedback.Service
	Redis    *redis.Client // optional storefront cache

	RequireAuthToOrder bool
}

func (a *API) Register(r *chi.Mux) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/login", a.login)
		r.Post("/admin/login", a.login) // legacy route kept for older clients
		if a.Users != nil {
			r.Post("/register", a.register)
		}

		r.Get("/products", a.listProducts)
		r.Get("/products/{id}", a.getProduct)
		r.Post("/inquiries", a.createInquiry)
		r.Post("/inquiry", a.createInquiry) // legacy singular routes kept for older clients
		r.Post("/suggestions", a.createSuggestion)
		r.Post("/suggestion", a.createSuggestion)

		if a.RequireAuthToOrder {
			r.With(RequireAuth(a.Strategy)).Post("/orders", a.createOrder)
			r.With(RequireAuth(a.Strategy)).Post("/order", a.createOrder)
		} else {
			r.Post("/orders", a.createOrder)
			r.Post("/order", a.createOrder)
		}

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(a.Strategy))
			r.Get("/orders", a.listOrders)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Patch("/orders/{id}/status", a.updateOrderStatus)
				r.Delete("/orders/{id}", a.deleteOrder)

				r.Route("/admin", func(r chi.Router) {
					r.Post("/logout", a.logout)
					r.Post("/change-password", a.changePassword)

					r.Get("/products", a.listProducts)
					r.Post("/products", a.createProduct)
					r.Put("/products/{id}", a.updateProduct)
					r.Delete("/products/{id}", a.deleteProduct)

					r.Get("/inquiries", a.listInquiries)
					r.Delete("/inquiries/{id}", a.deleteInquiry)
					r.Post("/inquiries/{id}/reply", a.replyInquiry)
					r.Get("/suggestions", a.listSuggestions)
					r.Delete("/suggestions/{id}", a.deleteSuggestion)
					r.Post("/send-message", a.sendMessage)
				})
			})
		})
	})
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", apperr.ErrValidation)
	}
	return id, nil
}
