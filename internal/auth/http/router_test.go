package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	authhttp "github.com/aussiebroadwan/crumb/internal/auth/http"
	"github.com/aussiebroadwan/crumb/internal/auth/domain"
	"github.com/aussiebroadwan/crumb/internal/auth/service"
	"github.com/aussiebroadwan/crumb/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/crumb/pkg/authsdk"
	"github.com/aussiebroadwan/crumb/pkg/cookiex"
	"github.com/aussiebroadwan/crumb/pkg/cryptox"
	"github.com/aussiebroadwan/crumb/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cryptox.SetPepper("http-test-pepper")
	os.Exit(m.Run())
}

type harness struct {
	clock  *jwtx.FixedClock
	engine *jwtx.Engine
	server *httptest.Server
	client *authsdk.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	users := &service.UserService{Store: st}
	_, err = users.CreateUser(ctx, "admin", "admin-password", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = users.CreateUser(ctx, "user", "user-password", domain.RoleUser)
	require.NoError(t, err)

	clock := jwtx.NewFixedClock(time.Now().Truncate(time.Second))
	engine, err := jwtx.NewEngine(jwtx.EngineConfig{
		Secret:       []byte(strings.Repeat("x", 64)),
		Issuer:       "crumb-test",
		AccessTTL:    15 * time.Minute,
		RefreshTTL:   time.Hour,
		Fingerprints: cryptox.Fingerprinter{Enabled: true},
		Clock:        clock,
	})
	require.NoError(t, err)

	cookies := cookiex.NewManager(engine, cookiex.Config{
		AccessCookieName:  "access_token",
		RefreshCookieName: "refresh_token",
		WithFingerprint:   true,
		PrefixEnabled:     true,
		HTTPOnly:          true,
		Secure:            true,
		SameSite:          http.SameSiteStrictMode,
		Path:              "/",
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := authhttp.NewRouter(engine, cookies, clock, "test", st, logger)
	router.ApplyRoutes()

	srv := httptest.NewTLSServer(router)
	t.Cleanup(srv.Close)

	client, err := authsdk.NewClient(srv.URL, authsdk.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	return &harness{clock: clock, engine: engine, server: srv, client: client}
}

func cookieValue(c *authsdk.Client, name string) string {
	for _, ck := range c.Cookies() {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

func TestLoginMeLogout(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	idx, err := h.client.Index(ctx)
	require.NoError(t, err)
	require.False(t, idx.Authenticated)

	_, err = h.client.Me(ctx)
	require.ErrorIs(t, err, authsdk.ErrUnauthenticated)

	id, err := h.client.Login(ctx, "admin", "admin-password")
	require.NoError(t, err)
	require.Equal(t, "admin", id.Username)
	require.Equal(t, []string{"admin", "user"}, id.Authorities)

	require.NotEmpty(t, cookieValue(h.client, "__Host-access_token"))
	require.NotEmpty(t, cookieValue(h.client, "__Host-refresh_token"))
	require.Len(t, cookieValue(h.client, cookiex.FingerprintCookieName), 2*cryptox.FingerprintSize)

	me, err := h.client.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "admin", me.Username)

	idx, err = h.client.Index(ctx)
	require.NoError(t, err)
	require.True(t, idx.Authenticated)
	require.Equal(t, "admin", idx.Username)

	require.NoError(t, h.client.Logout(ctx))
	require.Empty(t, h.client.Cookies())

	_, err = h.client.Me(ctx)
	require.ErrorIs(t, err, authsdk.ErrUnauthenticated)
}

func TestExpiredAccessTokenIsRenewed(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.client.Login(ctx, "user", "user-password")
	require.NoError(t, err)
	oldAccess := cookieValue(h.client, "__Host-access_token")
	oldFingerprint := cookieValue(h.client, cookiex.FingerprintCookieName)

	h.clock.Advance(16 * time.Minute)
	require.False(t, h.engine.Verify(ctx, oldAccess, oldFingerprint))

	me, err := h.client.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "user", me.Username)

	newAccess := cookieValue(h.client, "__Host-access_token")
	newFingerprint := cookieValue(h.client, cookiex.FingerprintCookieName)
	require.NotEqual(t, oldAccess, newAccess)
	require.NotEqual(t, oldFingerprint, newFingerprint)
	require.True(t, h.engine.Verify(ctx, newAccess, newFingerprint))

	// Past the refresh lifetime nothing authenticates.
	h.clock.Advance(2 * time.Hour)
	_, err = h.client.Me(ctx)
	require.ErrorIs(t, err, authsdk.ErrUnauthenticated)
}

func TestForeignFingerprintIsRejected(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.client.Login(ctx, "user", "user-password")
	require.NoError(t, err)

	u, err := url.Parse(h.server.URL)
	require.NoError(t, err)
	h.client.HTTPClient.Jar.SetCookies(u, []*http.Cookie{{
		Name:   cookiex.FingerprintCookieName,
		Value:  strings.Repeat("ab", cryptox.FingerprintSize),
		Path:   "/",
		Secure: true,
	}})

	_, err = h.client.Me(ctx)
	require.ErrorIs(t, err, authsdk.ErrUnauthenticated)
}

func TestLoginRejections(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.client.Login(ctx, "admin", "wrong-password")
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)

	_, err = h.client.Login(ctx, "nobody", "admin-password")
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)

	_, err = h.client.Login(ctx, "", "")
	require.ErrorIs(t, err, authsdk.ErrInvalidRequest)

	require.Empty(t, h.client.Cookies())

	resp, err := h.server.Client().Post(h.server.URL+"/login", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutWithoutSessionSetsDeletionCookies(t *testing.T) {
	h := newHarness(t)

	resp, err := h.server.Client().Get(h.server.URL + "/logout")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	headers := resp.Header.Values("Set-Cookie")
	require.Len(t, headers, 3)
	for _, header := range headers {
		require.Contains(t, header, "Max-Age=0")
		require.Contains(t, header, "Expires=Thu, 01 Jan 1970 00:00:00 GMT")
	}
}

func TestHealthAndDocs(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	live, err := h.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := h.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)

	resp, err := h.server.Client().Get(h.server.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "/login")
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newHarness(t)

	req, err := http.NewRequest(http.MethodGet, h.server.URL+"/livez", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-123")

	resp, err := h.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))
}
