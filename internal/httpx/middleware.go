package httpx

import (
	"net/http"

	"github.com/hodastore/store-api/internal/auth"
)

// RequireAuth rejects requests the strategy cannot identify: 401 when no
// credential was presented, 403 when it was invalid or expired.
func RequireAuth(s auth.Strategy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := s.Identify(r.Context(), r)
			if err != nil {
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), ident)))
		})
	}
}

// RequireAdmin gates a subtree on the admin role. Services re-check via
// auth.RequireRole; this just fails fast before any body parsing.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := auth.RequireRole(r.Context(), auth.RoleAdmin); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
