package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/veranievas/floralia-backend/api/responses"
	"github.com/veranievas/floralia-backend/pkg/config"
	"github.com/veranievas/floralia-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is any dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Floralia-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each named dependency. Nil probes count as skipped so
// optional dependencies (redis, gcs) do not fail readiness when disabled.
func HealthReady(cfg *config.Config, logg *logger.Logger, probes map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Floralia-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		statuses := make(map[string]string, len(probes))
		ready := true
		for name, probe := range probes {
			if probe == nil {
				statuses[name] = "skipped"
				continue
			}
			if err := probe.Ping(ctx); err != nil {
				statuses[name] = "down"
				ready = false
				if logg != nil {
					logg.Error(ctx, "health.probe_failed: "+name, err)
				}
				continue
			}
			statuses[name] = "up"
		}

		payload := map[string]any{
			"status": "ready",
			"checks": statuses,
		}
		if !ready {
			payload["status"] = "degraded"
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, payload)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}
