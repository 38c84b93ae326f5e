package httpx

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/crumb/pkg/cookiex"
	"github.com/aussiebroadwan/crumb/pkg/jwtx"
	"github.com/aussiebroadwan/crumb/pkg/slogx"
)

// TokenVerifier checks token cookies. *jwtx.Engine implements it.
type TokenVerifier interface {
	Verify(ctx context.Context, token, fingerprint string) bool
	SubjectOf(token string) (string, error)
}

// CookieIssuer names and mints the auth cookies. *cookiex.Manager implements
// it.
type CookieIssuer interface {
	Names() cookiex.Names
	Issue(subject string) ([]cookiex.Directive, error)
}

// IdentityResolver loads the principal behind a token subject.
type IdentityResolver interface {
	LoadByUsername(ctx context.Context, username string) (Identity, error)
}

// CookieAuthOption customises CookieAuthMiddleware.
type CookieAuthOption func(*cookieAuth)

// WithClock sets the clock used to render cookie Expires attributes.
func WithClock(c jwtx.Clock) CookieAuthOption {
	return func(a *cookieAuth) { a.clock = c }
}

type cookieAuth struct {
	tokens     TokenVerifier
	cookies    CookieIssuer
	identities IdentityResolver
	clock      jwtx.Clock
}

// CookieAuthMiddleware authenticates requests from their token cookies.
//
// A valid access token authenticates the request as is. Otherwise a valid
// refresh token authenticates it and a fresh cookie set is written to the
// response. Requests that carry neither continue unauthenticated; the
// middleware never rejects, access rules are enforced further down.
func CookieAuthMiddleware(tokens TokenVerifier, cookies CookieIssuer, identities IdentityResolver, opts ...CookieAuthOption) Middleware {
	a := &cookieAuth{
		tokens:     tokens,
		cookies:    cookies,
		identities: identities,
		clock:      jwtx.SystemClock{},
	}
	for _, opt := range opts {
		opt(a)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, ok := a.authenticate(w, r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (a *cookieAuth) authenticate(w http.ResponseWriter, r *http.Request) (context.Context, bool) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	names := a.cookies.Names()

	fingerprint := cookieValue(r, names.Fingerprint)

	if access := cookieValue(r, names.Access); a.tokens.Verify(ctx, access, fingerprint) {
		ctx, _, ok := a.resolve(ctx, access)
		return ctx, ok
	}

	refresh := cookieValue(r, names.Refresh)
	if !a.tokens.Verify(ctx, refresh, fingerprint) {
		return ctx, false
	}

	ctx, subject, ok := a.resolve(ctx, refresh)
	if !ok {
		return ctx, false
	}

	directives, err := a.cookies.Issue(subject)
	if err != nil {
		log.Error("reissue auth cookies", "user", subject, "err", err)
		return r.Context(), false
	}
	cookiex.Write(w, a.clock.Now(), directives)

	slogx.FromContext(ctx).Debug("auth cookies refreshed")
	return ctx, true
}

// resolve loads the identity for the token's subject and attaches it to ctx.
// The subject is returned as read from the token.
func (a *cookieAuth) resolve(ctx context.Context, token string) (context.Context, string, bool) {
	log := slogx.FromContext(ctx)

	subject, err := a.tokens.SubjectOf(token)
	if err != nil {
		log.Warn("read token subject", "err", err)
		return ctx, "", false
	}

	id, err := a.identities.LoadByUsername(ctx, subject)
	if err != nil {
		log.Warn("resolve identity", "user", subject, "err", err)
		return ctx, "", false
	}

	ctx = ContextWithIdentity(ctx, id)
	ctx = slogx.WithUser(ctx, id.Username)
	return ctx, subject, true
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
