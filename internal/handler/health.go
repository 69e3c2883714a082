package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/openhire/jobboard/internal/httpapi"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a plain function to the Pinger interface
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	database Pinger
	cache    Pinger
	logger   *slog.Logger
}

// NewHealthHandler creates a new health handler. Either dependency may be
// nil, in which case it is skipped by the readiness probe.
func NewHealthHandler(database, cache Pinger, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthHandler{
		database: database,
		cache:    cache,
		logger:   logger,
	}
}

// Health handles GET /healthz
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	httpapi.Respond(w, http.StatusOK, map[string]any{"status": "ok"}, "healthy")
}

// Ready handles GET /readyz. It fails when a hard dependency is down.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	healthy := true

	if h.database != nil {
		if err := h.database.Ping(r.Context()); err != nil {
			h.logger.Error("database readiness check failed", slog.String("error", err.Error()))
			checks["database"] = "down"
			healthy = false
		} else {
			checks["database"] = "up"
		}
	}

	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			h.logger.Warn("cache readiness check failed", slog.String("error", err.Error()))
			checks["cache"] = "down"
			healthy = false
		} else {
			checks["cache"] = "up"
		}
	}

	status := http.StatusOK
	message := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		message = "not ready"
	}

	httpapi.Respond(w, status, map[string]any{"checks": checks}, message)
}
