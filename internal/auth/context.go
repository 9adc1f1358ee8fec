// ABOUTME: Principal type and context propagation through request handlers
// ABOUTME: Provides WithPrincipal/FromContext for carrying identity and capabilities

package auth

import (
	"context"
)

// Principal is an authenticated identity plus its resolved capabilities,
// valid for one session or one token's lifetime. Roles is populated for
// session principals; token principals carry only the frozen capabilities.
type Principal struct {
	Login string
	Roles []string
	Caps  Capabilities
}

// principalKey is the key type for storing a Principal in context.Context.
type principalKey struct{}

// WithPrincipal returns a new context with the Principal attached.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the Principal from the context, returning nil if not present.
func FromContext(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	if !ok {
		return nil
	}
	return p
}
