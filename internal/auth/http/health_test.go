package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authhttp "github.com/aussiebroadwan/crumb/internal/auth/http"
	"github.com/aussiebroadwan/crumb/pkg/authsdk"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestReadyzHandler(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		code     int
		status   string
		database string
	}{
		{"database reachable", nil, http.StatusOK, "ok", "ok"},
		{"database down", errors.New("database is closed"), http.StatusServiceUnavailable, "degraded", "error: database is closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &mockPinger{}
			db.On("Ping", mock.Anything).Return(tt.pingErr).Once()

			rec := httptest.NewRecorder()
			authhttp.ReadyzHandler(time.Now().Add(-time.Minute), "v1", db).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			require.Equal(t, tt.code, rec.Code)
			require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

			var body authsdk.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tt.status, body.Status)
			require.Equal(t, "v1", body.Version)
			require.Equal(t, "1m0s", body.Uptime)
			require.NotNil(t, body.Checks)
			require.Equal(t, tt.database, body.Checks.Database)
			db.AssertExpectations(t)
		})
	}
}
