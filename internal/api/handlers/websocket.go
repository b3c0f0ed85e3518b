package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/cuesim/internal/config"
	"github.com/playmatatu/cuesim/internal/ws"
)

// HandleTableWebSocket streams snapshots and events; controllers may send commands.
func HandleTableWebSocket(hub *ws.Hub, table Table, cfg *config.Config) gin.HandlerFunc {
	return ws.HandleWebSocket(hub, table, cfg.JWTSecret)
}
