package handler

import (
	"net/http"
	"time"

	"github.com/billadmin/backend/internal/infrastructure/dataset"
	"github.com/gin-gonic/gin"
)

// RecordCounter reports the size and version of the loaded dataset
type RecordCounter interface {
	Counts() dataset.Counts
	Version() string
}

// SystemHandler serves liveness information
type SystemHandler struct {
	BaseHandler
	records RecordCounter
	started time.Time
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(records RecordCounter, version string) *SystemHandler {
	return &SystemHandler{records: records, started: time.Now(), version: version}
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Uptime   string         `json:"uptime"`
	Snapshot string         `json:"snapshot,omitempty"`
	Records  dataset.Counts `json:"records"`
}

// Health godoc
// @Summary      Health check
// @Tags         system
// @Produce      json
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Uptime:   time.Since(h.started).Round(time.Second).String(),
		Snapshot: h.records.Version(),
		Records:  h.records.Counts(),
	})
}
