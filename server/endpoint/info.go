package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/getscript/version"
)

// InfoResponse is the /info payload.
type InfoResponse struct {
	Service string `json:"service"`
	*version.Info
	StartedAt time.Time `json:"started_at"`
	Uptime    string    `json:"uptime"`
}

// Info reports build metadata and uptime, counted from the moment the
// handler was built.
func Info(serviceName string) gin.HandlerFunc {
	started := time.Now().UTC()
	build := version.GetVersionInfo()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, InfoResponse{
			Service:   serviceName,
			Info:      build,
			StartedAt: started,
			Uptime:    time.Since(started).Truncate(time.Second).String(),
		})
	}
}
