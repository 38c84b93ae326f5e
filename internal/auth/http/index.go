package http

import (
	"net/http"

	"github.com/aussiebroadwan/crumb/pkg/authsdk"
	"github.com/aussiebroadwan/crumb/pkg/httpx"
)

// IndexHandler godoc
//
//	@Summary		Landing page
//	@Description	Open to everyone; reports whether the request cookies authenticate.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	authsdk.IndexResponse	"authenticated, username"
//	@Router			/ [get].
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	var resp authsdk.IndexResponse
	if id, ok := httpx.IdentityFromContext(r.Context()); ok {
		resp.Authenticated = true
		resp.Username = id.Username
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
