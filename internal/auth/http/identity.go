package http

import (
	"context"

	"github.com/aussiebroadwan/crumb/internal/auth/domain"
	"github.com/aussiebroadwan/crumb/pkg/authsdk"
	"github.com/aussiebroadwan/crumb/pkg/httpx"
)

// IdentityLoader is satisfied by *service.UserService.
type IdentityLoader interface {
	LoadIdentity(ctx context.Context, username string) (domain.Identity, error)
}

// identityResolver adapts the user service to the cookie filter. Authorities
// are the scopes of the user's role.
type identityResolver struct {
	users IdentityLoader
}

func (r identityResolver) LoadByUsername(ctx context.Context, username string) (httpx.Identity, error) {
	id, err := r.users.LoadIdentity(ctx, username)
	if err != nil {
		return httpx.Identity{}, err
	}
	return httpx.Identity{Username: id.Username, Authorities: id.Authorities}, nil
}

func identityResponse(id httpx.Identity) authsdk.IdentityResponse {
	authorities := id.Authorities
	if authorities == nil {
		authorities = []string{}
	}
	return authsdk.IdentityResponse{Username: id.Username, Authorities: authorities}
}
