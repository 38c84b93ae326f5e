package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/crumb/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var seen *slog.Logger
	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = slogx.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(slogx.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.NotNil(t, seen)
	require.Equal(t, "req-123", rec.Header().Get(slogx.RequestIDHeader))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "http_request", line["msg"])
	require.Equal(t, "req-123", line["req_id"])
	require.Equal(t, "/me", line["path"])
	require.EqualValues(t, http.StatusTeapot, line["status"])
}

func TestHTTPMiddleware_GeneratesRequestID(t *testing.T) {
	base := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, rec.Header().Get(slogx.RequestIDHeader), 26)
}

func TestWithUser(t *testing.T) {
	var buf bytes.Buffer
	ctx := slogx.WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx = slogx.WithUser(ctx, "alice")

	slogx.FromContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "alice", line["user"])
}

func TestNew(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "auth", Version: "v0", Env: "test", Level: "warn", Format: "json", Output: &buf})

	logger.Info("dropped")
	logger.Warn("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "kept", line["msg"])
	require.Equal(t, "auth", line["service"])
}

func TestHTTPMiddleware_AccessLineCarriesUser(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = slogx.WithUser(r.Context(), "bob")
		w.WriteHeader(http.StatusInternalServerError)
		w.WriteHeader(http.StatusOK)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/me", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "bob", line["user"])
	require.Equal(t, "ERROR", line["level"])
	require.EqualValues(t, http.StatusInternalServerError, line["status"])
}

func TestNew_RedactsCredentials(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "auth", Format: "json", Output: &buf})
	logger.Info("login", "username", "alice", "password", "hunter2", "Fingerprint", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "alice", line["username"])
	require.Equal(t, slogx.Redacted, line["password"])
	require.Equal(t, slogx.Redacted, line["Fingerprint"])
}
