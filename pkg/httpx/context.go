package httpx

import (
	"context"
	"slices"
)

type ctxKey struct{}

// Identity is the authenticated principal attached to a request.
type Identity struct {
	Username    string
	Authorities []string
}

// HasAuthority reports whether the identity was granted authority.
func (i Identity) HasAuthority(authority string) bool {
	return slices.Contains(i.Authorities, authority)
}

// ContextWithIdentity returns a copy of ctx carrying id.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity stored by the cookie filter, if
// the request was authenticated.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
