package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/cuesim/internal/auth"
	"github.com/playmatatu/cuesim/internal/config"
)

// TableIDKey is the gin context key holding the table of a verified token.
const TableIDKey = "table_id"

// RequireController validates a bearer controller token for the configured
// table. Websocket clients may pass the token as ?token= instead.
func RequireController(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		tableID, err := auth.ParseControllerToken(cfg.JWTSecret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if tableID != cfg.TableID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token is for another table"})
			return
		}

		c.Set(TableIDKey, tableID)
		c.Next()
	}
}
