package http

import (
	"net/http"

	"github.com/aussiebroadwan/crumb/pkg/authsdk"
	"github.com/aussiebroadwan/crumb/pkg/httpx"
)

// MeHandler godoc
//
//	@Summary		Current identity
//	@Description	Returns the identity authenticated by the request cookies.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	authsdk.IdentityResponse	"username, authorities"
//	@Failure		401	{object}	authsdk.ErrorResponse		"unauthenticated"
//	@Router			/me [get].
func MeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		authsdk.ErrUnauthenticated.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identityResponse(id))
}
