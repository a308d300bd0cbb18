package middleware

import (
	"net/http"
	"strings"
)

const cartSessionHeader = "X-Cart-Session"

// CartSession lifts the anonymous cart token off the request into the context.
// The token is optional; authenticated requests usually carry none.
func CartSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(cartSessionHeader))
			if token != "" {
				r = r.WithContext(WithCartSession(r.Context(), token))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetCartSessionHeader echoes a (possibly fresh) token back to the client.
func SetCartSessionHeader(w http.ResponseWriter, token string) {
	if token != "" {
		w.Header().Set(cartSessionHeader, token)
	}
}
