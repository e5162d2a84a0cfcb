package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/astro/internal/scheduler"
	"github.com/wonny/astro/pkg/logger"
)

// Pinger a dependency that can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles health and scheduler endpoints
type SystemHandler struct {
	checks    map[string]Pinger
	scheduler *scheduler.Scheduler // nil = no background jobs
	logger    *logger.Logger
}

// NewSystemHandler creates a handler; checks maps dependency name to pinger
func NewSystemHandler(checks map[string]Pinger, sched *scheduler.Scheduler, log *logger.Logger) *SystemHandler {
	return &SystemHandler{
		checks:    checks,
		scheduler: sched,
		logger:    log.Component("api.system"),
	}
}

// Health reports service status and each dependency
// GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	deps := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.logger.WithError(err).WithField("dependency", name).Warn("Health check failed")
			deps[name] = "down"
			status = "degraded"
			continue
		}
		deps[name] = "up"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]interface{}{
		"status":       status,
		"service":      "astro-api",
		"dependencies": deps,
	})
}

// Jobs returns scheduler job statistics
// GET /api/jobs
func (h *SystemHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"jobs": []scheduler.JobStats{}})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"jobs": h.scheduler.Stats()})
}
