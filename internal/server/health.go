package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Health statuses.
const (
	StatusAlive    = "alive"
	StatusNotAlive = "not alive"
	StatusReady    = "ready"
	StatusDegraded = "degraded"
	StatusNotReady = "not ready"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// LivenessHandler returns a handler for Kubernetes liveness probes.
// Liveness probes should only fail if the process needs to be restarted.
func LivenessHandler(checker HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := StatusAlive
		statusCode := http.StatusOK

		if !checker.Liveness() {
			status = StatusNotAlive
			statusCode = http.StatusServiceUnavailable
		}

		writeHealth(w, statusCode, HealthResponse{Status: status}, logger)
	}
}

// ReadinessHandler returns a handler for Kubernetes readiness probes.
// A ready daemon whose last sweep failed reports "degraded" with 200: the
// failed files are retried on the next sweep, so traffic is not withdrawn.
func ReadinessHandler(checker HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := StatusReady
		statusCode := http.StatusOK

		switch {
		case !checker.Readiness(r.Context()):
			status = StatusNotReady
			statusCode = http.StatusServiceUnavailable
		case !checker.IsHealthy():
			status = StatusDegraded
		}

		writeHealth(w, statusCode, HealthResponse{
			Status: status,
			Checks: checker.GetStatus(),
		}, logger)
	}
}

func writeHealth(w http.ResponseWriter, statusCode int, response HealthResponse, logger *slog.Logger) {
	response.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed to encode health response", "error", err, "status", response.Status)
	}
}
