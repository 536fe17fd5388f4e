package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-idverify-api/internal/domain"
	jwtinfra "github.com/go-idverify-api/internal/infrastructure/jwt"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// SessionChecker validates that the server-side session behind a token is
// still live. A disabled or expired session fails with domain.ErrUnauthorized.
type SessionChecker interface {
	ValidateSession(ctx context.Context, sessionID string) error
}

// Auth returns middleware that validates the Bearer session token, confirms
// the server-side session it references is still enabled and unexpired, and
// injects the claims into context. The second check is what makes logout
// effective before the token's own expiry.
func Auth(provider *jwtinfra.Provider, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, `{"error":"missing or invalid authorization header"}`, http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := provider.Verify(tokenStr)
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}
			if err := sessions.ValidateSession(r.Context(), claims.SessionID); err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					http.Error(w, `{"error":"session revoked or expired"}`, http.StatusUnauthorized)
					return
				}
				http.Error(w, `{"error":"session store unavailable"}`, http.StatusServiceUnavailable)
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts session token claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}
