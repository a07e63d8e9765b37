// Package identity carries the authenticated caller through request
// contexts, shared by the HTTP middleware, the handlers, and the
// WebSocket hub.
package identity

import (
	"context"

	"github.com/Bollo444/SyncSphere-sub004/internal/core/domain"
)

// Identity is the authenticated principal of a request.
type Identity struct {
	UserID string
	Role   domain.Role
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == domain.RoleAdmin
}

type contextKey struct{}

// WithContext attaches id to ctx.
func WithContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the caller identity, if the request was
// authenticated.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
