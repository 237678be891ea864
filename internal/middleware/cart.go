package middleware

import (
	"net/http"

	"github.com/reachfood2026-cmyk/reachfoodshop/internal/cart"
)

// Cart attaches the session's cart store to the request context. It must run after the
// session middleware.
func Cart(registry *cart.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := GetSession(r)
			if s.ID == "" {
				panic("middleware: Cart used without the session middleware")
			}
			ctx := cart.WithStore(r.Context(), registry.Get(s.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
