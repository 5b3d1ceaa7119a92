package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// HealthChecker reports whether a dependency is usable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	checks   map[string]HealthChecker
	optional map[string]HealthChecker
	logger   *zap.Logger
}

// NewHealthHandler creates a new HealthHandler; checks are keyed by dependency name.
// A failing optional dependency is reported but does not fail readiness.
func NewHealthHandler(checks, optional map[string]HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checks:   checks,
		optional: optional,
		logger:   logger,
	}
}

// HandleHealth handles GET /healthz
// Basic health check - always returns 200 if service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness handles GET /readyz
// Readiness check - validates that all dependencies are available
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checks)+len(h.optional))
	ready := h.run(ctx, h.checks, checks)
	complete := h.run(ctx, h.optional, checks)

	status := "healthy"
	httpStatus := http.StatusOK
	switch {
	case !ready:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case !complete:
		status = "degraded"
	}

	if err := utils.WriteJSON(w, httpStatus, map[string]interface{}{
		"success":   ready,
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}

// run records each check's result in results and reports whether all passed
func (h *HealthHandler) run(ctx context.Context, checks map[string]HealthChecker, results map[string]string) bool {
	ok := true
	for name, checker := range checks {
		if err := checker.HealthCheck(ctx); err != nil {
			h.logger.Warn("health check failed",
				zap.String("dependency", name),
				zap.Error(err))
			results[name] = "unhealthy"
			ok = false
			continue
		}
		results[name] = "healthy"
	}
	return ok
}
