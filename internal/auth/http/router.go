package http

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/aussiebroadwan/crumb/internal/auth/service"
	"github.com/aussiebroadwan/crumb/internal/auth/store"
	"github.com/aussiebroadwan/crumb/pkg/cookiex"
	"github.com/aussiebroadwan/crumb/pkg/httpx"
	"github.com/aussiebroadwan/crumb/pkg/jwtx"
	"github.com/aussiebroadwan/crumb/pkg/slogx"

	_ "github.com/aussiebroadwan/crumb/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	tokens       *jwtx.Engine
	cookies      *cookiex.Manager
	clock        jwtx.Clock
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	UserService *service.UserService
}

func NewRouter(
	tokens *jwtx.Engine,
	cookies *cookiex.Manager,
	clock jwtx.Clock,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		tokens:       tokens,
		cookies:      cookies,
		clock:        clock,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		UserService:  &service.UserService{Store: st},
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	return r
}

// ApplyRoutes registers every route and builds the global chain. The cookie
// filter runs on every request, open routes included, after request logging
// is set up.
func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())

	mws := append(slices.Clone(r.middlewares),
		httpx.CookieAuthMiddleware(r.tokens, r.cookies, identityResolver{users: r.UserService}, httpx.WithClock(r.clock)),
	)
	r.handler = httpx.Chain(r.Mux, mws...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Crumb Authentication Service API
//	@version		0.1.0
//	@description	Stateless cookie based authentication. Logging in sets an access token, a refresh token and a fingerprint cookie.
//	@description	Requests authenticate from the access token; when it has expired a valid refresh token silently renews all three cookies.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/crumb
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.handler == nil {
		http.Error(w, "routes not applied", http.StatusInternalServerError)
		return
	}
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	login := &LoginHandler{Users: r.UserService, Cookies: r.cookies, Clock: r.clock}
	logout := &LogoutHandler{Cookies: r.cookies, Clock: r.clock}

	// Rate limited by IP + username to slow down password guessing
	r.Mux.Handle("POST /login",
		httpx.Chain(login,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	logoutLimited := httpx.Chain(logout, httpx.RateLimitByIP(httpx.ModerateLimit))
	r.Mux.Handle("GET /logout", logoutLimited)
	r.Mux.Handle("POST /logout", logoutLimited)

	r.Mux.Handle("GET /me",
		httpx.Chain(http.HandlerFunc(MeHandler),
			httpx.RequireAuthenticated(),
			httpx.RateLimitByIdentity(httpx.ModerateLimit),
		),
	)

	index := httpx.Chain(http.HandlerFunc(IndexHandler), httpx.RateLimitByIP(httpx.PublicLimit))
	r.Mux.Handle("GET /{$}", index)
	r.Mux.Handle("GET /index", index)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
