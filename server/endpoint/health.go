package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/getscript/observability"
)

// HealthFunc builds the current service health.
type HealthFunc func(ctx context.Context) *observability.ServiceHealth

// Health returns a handler reporting the service health. A down service
// answers 503; up and degraded answer 200.
func Health(check HealthFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := check(c.Request.Context())
		status := http.StatusOK
		if sh.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, sh)
	}
}
