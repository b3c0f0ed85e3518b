package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/cuesim/internal/ws"
)

// Table is the simulation session the handlers drive.
type Table interface {
	ws.Table
	Running() bool
}

// queryInt reads an integer query parameter, falling back to def.
func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
