package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const readinessTimeout = 2 * time.Second

// ReadinessProbe reports whether the service can reach its dependencies.
type ReadinessProbe interface {
	Ready(ctx context.Context) error
}

// handleHealth is the liveness probe. It never touches the store.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readyHandler probes the store with a short timeout.
func readyHandler(logger *slog.Logger, probe ReadinessProbe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, http.MethodGet, http.MethodHead)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		status := http.StatusOK
		payload := map[string]string{"status": "ok"}

		if probe != nil {
			if err := probe.Ready(ctx); err != nil {
				logger.Error("readiness probe failed", "error", err)
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["error"] = "graph store unavailable"
			}
		}

		respondJSON(w, status, payload)
	}
}
