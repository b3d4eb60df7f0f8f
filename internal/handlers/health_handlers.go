package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// HealthHandlers handles liveness and readiness probes.
type HealthHandlers struct {
	checks  map[string]Check
	started time.Time
	version string
}

func NewHealthHandlers(version string, checks map[string]Check) *HealthHandlers {
	return &HealthHandlers{checks: checks, started: time.Now(), version: version}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// Live reports that the process is serving.
func (h *HealthHandlers) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, h.status("healthy"))
}

// Ready probes every dependency and answers 503 if any of them fails.
func (h *HealthHandlers) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	health := h.status("healthy")
	health.Services = make(map[string]string, len(h.checks))

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
			continue
		}
		health.Services[name] = "healthy"
	}

	code := http.StatusOK
	if health.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, health)
}

func (h *HealthHandlers) status(s string) *HealthStatus {
	return &HealthStatus{
		Status:    s,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
	}
}
