package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/cuesim/internal/database"
	"github.com/playmatatu/cuesim/internal/sim"
)

const commandTimeout = 2 * time.Second

// ShotHistory is the read side of the shot log.
type ShotHistory interface {
	Recent(ctx context.Context, tableID string, limit int) ([]database.Shot, error)
}

// GetTable returns the last published snapshot
func GetTable(table Table) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Table-ID", table.TableID())
		c.JSON(http.StatusOK, gin.H{
			"table_id": table.TableID(),
			"snapshot": table.Snapshot(),
		})
	}
}

// PostCommand applies one cue command and returns its result
func PostCommand(table Table) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cmd sim.Command
		if err := c.ShouldBindJSON(&cmd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid command body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
		defer cancel()

		res, err := table.Submit(ctx, cmd)
		switch {
		case errors.Is(err, sim.ErrUnknownCommand):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case errors.Is(err, sim.ErrSessionClosed):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "table is not running"})
			return
		case err != nil:
			log.Printf("[API] Command %s failed: %v", cmd.Name, err)
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "table did not respond"})
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// GetShots lists the most recent shots taken on the table
func GetShots(table Table, shots ShotHistory) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := shots.Recent(c.Request.Context(), table.TableID(), queryInt(c, "limit", 50))
		if err != nil {
			log.Printf("[DB] Recent shots failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if list == nil {
			list = []database.Shot{}
		}
		c.JSON(http.StatusOK, gin.H{"shots": list})
	}
}
