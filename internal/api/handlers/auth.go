package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/cuesim/internal/auth"
	"github.com/playmatatu/cuesim/internal/config"
)

// IssueToken exchanges the operator password for a controller token
func IssueToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
			return
		}

		err := auth.CheckOperatorPassword(cfg.OperatorPasswordHash, req.Password)
		if errors.Is(err, auth.ErrNoOperator) {
			c.JSON(http.StatusForbidden, gin.H{"error": "operator login is disabled"})
			return
		}
		if err != nil {
			log.Printf("[AUTH] Rejected operator login from %s", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
			return
		}

		token, exp, err := auth.IssueControllerToken(cfg.JWTSecret, cfg.TableID, cfg.ControllerTokenTTL)
		if err != nil {
			log.Printf("[AUTH] Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		log.Printf("[AUTH] Controller token issued for table %s (expires %s)", cfg.TableID, exp.Format("15:04:05"))
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"table_id":   cfg.TableID,
			"expires_at": exp.Unix(),
		})
	}
}
