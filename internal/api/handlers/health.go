package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status. A table that is not ticking
// answers 503.
func HealthCheck(table Table) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := table.Snapshot()
		status, code := "ok", http.StatusOK
		if !table.Running() {
			status, code = "stopped", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":   status,
			"service":  "cuesim-api",
			"version":  version,
			"uptime":   time.Since(startTime).String(),
			"table_id": table.TableID(),
			"tick":     snap.Tick,
		})
	}
}
