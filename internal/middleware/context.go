// internal/middleware/context.go
package middleware

import (
	"context"

	"github.com/AnanyaNagabhushan/taskflow/pkg/auth"
)

type claimsKey struct{}
type clientInfoKey struct{}

// ClientInfo is the request metadata captured for logging. UserID is
// filled in by the auth middleware once the token is validated; the
// pointer is shared through the context so the outer request logger
// sees it too.
type ClientInfo struct {
	IPAddress string
	UserAgent string
	UserID    uint
}

// WithClaims stores the authenticated claims in the context.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext retrieves the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

// UserIDFromContext retrieves the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// WithClientInfo stores request metadata in the context.
func WithClientInfo(ctx context.Context, info *ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// ClientInfoFromContext retrieves request metadata. It always returns a
// usable value so log call sites stay unconditional.
func ClientInfoFromContext(ctx context.Context) *ClientInfo {
	if info, ok := ctx.Value(clientInfoKey{}).(*ClientInfo); ok {
		return info
	}
	return &ClientInfo{}
}
