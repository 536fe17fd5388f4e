package middleware

import (
	"crypto/subtle"
	"net/http"
)

// RequireAdminToken returns middleware that gates administrative routes
// behind a static token supplied in the X-Admin-Token header. When no token
// is configured the routes are disabled outright.
func RequireAdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				http.Error(w, `{"error":"admin access disabled"}`, http.StatusForbidden)
				return
			}
			supplied := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
