package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/crumb/pkg/authsdk"
	"github.com/aussiebroadwan/crumb/pkg/httpx"
	"github.com/aussiebroadwan/crumb/pkg/slogx"
)

// Pinger is satisfied by store.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// readyTimeout bounds the database ping of a readiness probe.
const readyTimeout = 2 * time.Second

type health struct {
	started time.Time
	version string
}

func (h health) report(status string, checks *authsdk.HealthChecks) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.started).Truncate(time.Second).String(),
		Version: h.version,
		Checks:  checks,
	}
}

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Returns 200 with uptime and version while the process is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	h := health{started: startTime, version: version}
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, h.report("ok", nil))
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the credential database, 503 when it is unreachable
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, db Pinger) http.HandlerFunc {
	h := health{started: startTime, version: version}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			slogx.FromContext(ctx).Warn("readiness database ping", "err", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable,
				h.report("degraded", &authsdk.HealthChecks{Database: "error: " + err.Error()}))
			return
		}
		httpx.WriteJSON(w, http.StatusOK, h.report("ok", &authsdk.HealthChecks{Database: "ok"}))
	}
}
