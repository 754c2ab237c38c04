package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pagekeeper/internal/cache"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	cache   *cache.TieredCache
	version string
}

func NewHealthController(tc *cache.TieredCache, version string) *HealthController {
	return &HealthController{
		cache:   tc,
		version: version,
	}
}

// Status reports cache-tier health. Serving from the fallback tier is
// degraded, not unhealthy: the boundary still answers.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.cache != nil {
		if h.cache.Reachable() {
			checks["cache"] = "ok"
		} else {
			checks["cache"] = "degraded: serving from fallback"
			status = "degraded"
		}
	} else {
		checks["cache"] = "not configured"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}
