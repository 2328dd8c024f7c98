package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ValidateIDs rejects malformed entity ids before they reach the database,
// where the ::uuid casts would turn them into opaque 500s. It checks the
// ":id" path parameter and the "projectId" query parameter when present.
func ValidateIDs() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.Param("id"); id != "" && uuid.Validate(id) != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid id"})
			return
		}
		if pid := c.Query("projectId"); pid != "" && uuid.Validate(pid) != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid projectId"})
			return
		}
		c.Next()
	}
}
