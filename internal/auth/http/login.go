package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/crumb/internal/auth/domain"
	"github.com/aussiebroadwan/crumb/internal/auth/service"
	"github.com/aussiebroadwan/crumb/pkg/authsdk"
	"github.com/aussiebroadwan/crumb/pkg/cookiex"
	"github.com/aussiebroadwan/crumb/pkg/httpx"
	"github.com/aussiebroadwan/crumb/pkg/jwtx"
	"github.com/aussiebroadwan/crumb/pkg/slogx"
)

// Authenticator checks login credentials. *service.UserService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (domain.Identity, error)
}

// LoginHandler serves POST /login.
type LoginHandler struct {
	Users   Authenticator
	Cookies httpx.CookieIssuer
	Clock   jwtx.Clock
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Verifies a username and password and sets the access, refresh and fingerprint cookies.
//	@Tags			Session
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string						true	"Login name"
//	@Param			password	formData	string						true	"Password"
//	@Success		200			{object}	authsdk.IdentityResponse	"username, authorities"
//	@Failure		400			{object}	authsdk.ErrorResponse		"error, error_description"
//	@Failure		401			{object}	authsdk.ErrorResponse		"invalid_credentials"
//	@Failure		429			{object}	authsdk.ErrorResponse		"rate_limit_exceeded"
//	@Failure		500			{object}	authsdk.ErrorResponse		"error, error_description"
//	@Header			200			{string}	Set-Cookie					"auth cookies"
//	@Router			/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		authsdk.ErrInvalidContentType.WriteError(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "username and password are required").WriteError(w)
		return
	}

	id, err := h.Users.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			authsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		log.Error("authenticate", "username", username, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	directives, err := h.Cookies.Issue(id.Username)
	if err != nil {
		log.Error("issue auth cookies", "username", id.Username, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}
	cookiex.Write(w, h.Clock.Now(), directives)

	log.Info("login succeeded", "user", id.Username)
	httpx.WriteJSON(w, http.StatusOK, identityResponse(httpx.Identity{
		Username:    id.Username,
		Authorities: id.Authorities,
	}))
}
