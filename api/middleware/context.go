package middleware

import (
	"context"

	"github.com/bazarly/storefront-backend/pkg/auth"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// IdentityFromContext returns the resolved cart owner, or the anonymous
// guest when no identity middleware ran.
func IdentityFromContext(ctx context.Context) auth.Identity {
	if ctx == nil {
		return auth.Anonymous()
	}
	if v, ok := ctx.Value(ctxIdentity).(auth.Identity); ok {
		return v
	}
	return auth.Anonymous()
}

// WithIdentity injects the resolved identity into the context.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, id)
}
