package auth_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/crumb/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestSessionLifecycle logs in, reads the identity and logs out.
func TestSessionLifecycle(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := newClient(t, baseURL)

	index, err := client.Index(t.Context())
	require.NoError(t, err)
	require.False(t, index.Authenticated)

	_, err = client.Me(t.Context())
	require.ErrorIs(t, err, authsdk.ErrUnauthenticated)

	id, err := client.Login(t.Context(), adminUsername, adminPassword)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"admin", "user"}, id.Authorities)

	names := make([]string, 0, 2)
	for _, c := range client.Cookies() {
		names = append(names, c.Name)
	}
	require.ElementsMatch(t, []string{"access_token", "refresh_token"}, names)

	me, err := client.Me(t.Context())
	require.NoError(t, err)
	require.Equal(t, adminUsername, me.Username)

	index, err = client.Index(t.Context())
	require.NoError(t, err)
	require.True(t, index.Authenticated)
	require.Equal(t, adminUsername, index.Username)

	require.NoError(t, client.Logout(t.Context()))
	require.Empty(t, client.Cookies())

	_, err = client.Me(t.Context())
	require.ErrorIs(t, err, authsdk.ErrUnauthenticated)
}

// TestLoginRejectsBadCredentials checks that unknown users and wrong
// passwords are indistinguishable.
func TestLoginRejectsBadCredentials(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := newClient(t, baseURL)

	_, err := client.Login(t.Context(), adminUsername, "wrong-password")
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)

	_, err = client.Login(t.Context(), "nobody", adminPassword)
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)

	require.Empty(t, client.Cookies())
}

// TestRefreshRenewsExpiredAccessToken uses a short access lifetime so the
// refresh token has to carry the second request.
func TestRefreshRenewsExpiredAccessToken(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t, map[string]string{
		"AUTH_ACCESS_TOKEN_EXPIRATION": "1s",
	})
	defer cleanup()

	client := loginAdmin(t, baseURL)
	before := cookieValue(client, "refresh_token")
	require.NotEmpty(t, before)

	time.Sleep(2 * time.Second)

	// The jar has dropped the expired access cookie, only the refresh
	// cookie is sent.
	require.Empty(t, cookieValue(client, "access_token"))

	me, err := client.Me(t.Context())
	require.NoError(t, err)
	require.Equal(t, adminUsername, me.Username)

	require.NotEmpty(t, cookieValue(client, "access_token"))
	require.NotEqual(t, before, cookieValue(client, "refresh_token"))
}

// TestTamperedTokenIsIgnored replaces the tokens with a forged value.
func TestTamperedTokenIsIgnored(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := loginAdmin(t, baseURL)
	access := cookieValue(client, "access_token")
	parts := strings.Split(access, ".")
	require.Len(t, parts, 3)

	u, err := url.Parse(baseURL)
	require.NoError(t, err)
	forged := parts[0] + "." + parts[1] + ".AAAA"
	client.HTTPClient.Jar.SetCookies(u, []*http.Cookie{
		{Name: "access_token", Value: forged, Path: "/"},
		{Name: "refresh_token", Value: forged, Path: "/"},
	})

	_, err = client.Me(t.Context())
	require.ErrorIs(t, err, authsdk.ErrUnauthenticated)
}

// TestFingerprintCookieIssued checks the cookie headers with binding enabled.
// The jar cannot return the Secure fingerprint over plain http, so the
// headers are inspected directly.
func TestFingerprintCookieIssued(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t, map[string]string{
		"AUTH_COOKIE_WITH_FINGERPRINT": "true",
	})
	defer cleanup()

	form := url.Values{"username": {adminUsername}, "password": {adminPassword}}
	resp, err := http.PostForm(baseURL+"/login", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	headers := resp.Header.Values("Set-Cookie")
	require.Len(t, headers, 3)

	var fingerprint string
	for _, h := range headers {
		if strings.HasPrefix(h, "__Secure-Fpg=") {
			fingerprint = h
		}
	}
	require.NotEmpty(t, fingerprint)
	require.Contains(t, fingerprint, "HttpOnly")
	require.Contains(t, fingerprint, "Secure")
	require.Contains(t, fingerprint, "SameSite=Strict")
	require.NotContains(t, fingerprint, "Max-Age")

	// Without the fingerprint the tokens do not authenticate.
	client := newClient(t, baseURL)
	u, err := url.Parse(baseURL)
	require.NoError(t, err)
	client.HTTPClient.Jar.SetCookies(u, resp.Cookies())

	_, err = client.Me(t.Context())
	require.ErrorIs(t, err, authsdk.ErrUnauthenticated)
}

func cookieValue(c *authsdk.Client, name string) string {
	for _, ck := range c.Cookies() {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}
