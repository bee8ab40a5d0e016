package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminAuth rejects requests that don't carry the configured admin token in
// the X-Admin-Token header. An empty configured token disables the admin
// surface entirely rather than leaving it open.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin API is disabled"})
			return
		}
		if c.GetHeader("X-Admin-Token") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin token"})
			return
		}
		c.Next()
	}
}
