package http

import (
	"net/http"

	"github.com/aussiebroadwan/crumb/pkg/cookiex"
	"github.com/aussiebroadwan/crumb/pkg/httpx"
	"github.com/aussiebroadwan/crumb/pkg/jwtx"
)

// CookieDeleter renders the directives that clear the auth cookies.
type CookieDeleter interface {
	Delete() []cookiex.Directive
}

// LogoutHandler serves GET and POST /logout. Tokens are stateless, logging out
// only expires the cookies on the client.
type LogoutHandler struct {
	Cookies CookieDeleter
	Clock   jwtx.Clock
}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Expires the access, refresh and fingerprint cookies. Always succeeds.
//	@Tags			Session
//	@Success		204	"cookies cleared"
//	@Header			204	{string}	Set-Cookie	"expired auth cookies"
//	@Router			/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cookiex.Write(w, h.Clock.Now(), h.Cookies.Delete())
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
