package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/cuesim/internal/api/handlers"
	"github.com/playmatatu/cuesim/internal/config"
	"github.com/playmatatu/cuesim/internal/middleware"
	"github.com/playmatatu/cuesim/internal/ws"
)

// Deps are the services the routes are wired to. Layouts and Shots are nil
// when no database is configured; their routes are then not registered.
type Deps struct {
	Config  *config.Config
	Table   handlers.Table
	Hub     *ws.Hub
	Layouts handlers.LayoutStore
	Shots   handlers.ShotHistory
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	cfg := d.Config
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[API] No-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(d.Table))

		v1.POST("/auth/token", handlers.IssueToken(cfg))

		table := v1.Group("/table")
		{
			table.GET("", handlers.GetTable(d.Table))
			table.GET("/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleTableWebSocket(d.Hub, d.Table, cfg))
			table.POST("/commands", middleware.RequireController(cfg), handlers.PostCommand(d.Table))
			if d.Shots != nil {
				table.GET("/shots", handlers.GetShots(d.Table, d.Shots))
			}
		}

		if d.Layouts != nil {
			layouts := v1.Group("/layouts")
			{
				layouts.GET("", handlers.ListLayouts(d.Layouts))
				layouts.GET("/:name", handlers.GetLayout(d.Layouts))
				layouts.PUT("/:name", middleware.RequireController(cfg), handlers.PutLayout(d.Layouts))
			}
		} else {
			log.Println("[API] No database configured; layout routes disabled")
		}
	}
}
