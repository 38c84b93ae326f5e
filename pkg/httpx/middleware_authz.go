package httpx

import "net/http"

const (
	ErrorCodeUnauthenticated = "unauthenticated"
	ErrorCodeAccessDenied    = "access_denied"
)

// RequireAuthenticated rejects requests without an identity with 401.
func RequireAuthenticated() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := IdentityFromContext(r.Context()); !ok {
				WriteError(w, http.StatusUnauthorized, ErrorCodeUnauthenticated, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyAuthority lets through identities holding at least one of the
// listed authorities. Anonymous requests get 401, others 403.
func RequireAnyAuthority(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, ErrorCodeUnauthenticated, "authentication required")
				return
			}
			for _, authority := range required {
				if id.HasAuthority(authority) {
					next.ServeHTTP(w, r)
					return
				}
			}
			WriteError(w, http.StatusForbidden, ErrorCodeAccessDenied, "insufficient authority")
		})
	}
}
