package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 3 * time.Second

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// StorageChecker is the part of the picture store the health check needs.
type StorageChecker interface {
	Check(ctx context.Context) error
}

// HealthController reports whether the database and the picture storage
// backend are reachable.
type HealthController struct {
	db       Pinger
	pictures StorageChecker
	version  string
}

func NewHealthController(db Pinger, pictures StorageChecker, version string) *HealthController {
	return &HealthController{
		db:       db,
		pictures: pictures,
		version:  version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	checks := map[string]string{
		"database": checkResult(h.db != nil, func() error { return h.db.Ping() }),
		"storage":  checkResult(h.pictures != nil, func() error { return h.pictures.Check(ctx) }),
	}

	status, statusCode := "healthy", http.StatusOK
	for _, result := range checks {
		if result != "ok" && result != "not configured" {
			status, statusCode = "unhealthy", http.StatusServiceUnavailable
			break
		}
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}

func checkResult(configured bool, check func() error) string {
	if !configured {
		return "not configured"
	}
	if err := check(); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
