package middleware

import (
	"net/http"
	"strings"

	pkgAuth "github.com/bazarly/storefront-backend/pkg/auth"
	"github.com/bazarly/storefront-backend/pkg/config"
	"github.com/bazarly/storefront-backend/pkg/logger"
)

// Identity resolves the cart owner from the bearer token, if any, and seeds
// the request context with it. It never rejects: a missing token is the
// guest, an invalid token lands in the shared authenticated namespace, so
// every request can still read and mutate a cart.
func Identity(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			id := pkgAuth.ResolveIdentity(cfg, token)

			ctx := WithIdentity(r.Context(), id)
			if logg != nil && id.UserID != "" {
				ctx = logg.WithUserID(ctx, id.UserID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
