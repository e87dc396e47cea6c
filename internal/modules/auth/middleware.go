package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/georgemunganga/dealer-backend/internal/platform/httpx"
)

type ctxKey struct{}

// WithClaims returns a context carrying claims.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFrom returns the caller's claims, or nil for anonymous requests.
func ClaimsFrom(ctx context.Context) *Claims {
	c, _ := ctx.Value(ctxKey{}).(*Claims)
	return c
}

// Authenticate parses a Bearer token when one is present. Requests without
// an Authorization header pass through anonymously; RequireRole rejects them
// where a role is needed.
func Authenticate(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "malformed authorization header", nil)
				return
			}
			claims, err := svc.ParseToken(strings.TrimSpace(token))
			if err != nil {
				httpx.Error(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole rejects anonymous callers with 401 and callers outside roles with 403.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFrom(r.Context())
			if claims == nil {
				httpx.JSONError(w, http.StatusUnauthorized, "authentication required", nil)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.JSONError(w, http.StatusForbidden, "insufficient role", nil)
		})
	}
}
