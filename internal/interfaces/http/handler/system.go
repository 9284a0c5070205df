package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gestor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// DatabasePinger checks whether the backing database is reachable.
type DatabasePinger interface {
	Ping() error
}

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db        DatabasePinger
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db DatabasePinger, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse represents the liveness response
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
// @Summary      Liveness probe
// @Description  Reports that the process is up; does not touch dependencies
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Status   string `json:"status" example:"ready"`
	Database string `json:"database" example:"up"`
}

// Ready godoc
// @Summary      Readiness probe
// @Description  Verifies the database connection before reporting ready
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=ReadyResponse}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(dto.ErrCodeInternal, "Database unavailable"))
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(ReadyResponse{
		Status:   "ready",
		Database: "up",
	}))
}
