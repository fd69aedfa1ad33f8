package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/memoriascard/backend/internal/interfaces/http/dto"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// healthCheckTimeout bounds each dependency check
const healthCheckTimeout = 2 * time.Second

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	checks    map[string]HealthCheck
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. checks are run by Health,
// keyed by the dependency name reported in the response.
func NewSystemHandler(name, version string, checks map[string]HealthCheck) *SystemHandler {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &SystemHandler{
		name:      name,
		version:   version,
		checks:    checks,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// HealthResponse reports the service and dependency status
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

// GetSystemInfo returns basic system information including version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// Health runs every dependency check. Any failure answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{
		Status:    "healthy",
		Checks:    make(map[string]string, len(names)),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	status := http.StatusOK

	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			resp.Checks[name] = "unhealthy: " + err.Error()
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, resp)
}
