package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireUser resolves the session cookie and aborts with 401 when no valid
// session exists. On success the user id and username land in the Gin
// context for the handlers behind it.
func RequireUser(store *SessionStore, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "not authenticated"})
			c.Abort()
			return
		}

		sess, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "not authenticated"})
			c.Abort()
			return
		}

		c.Set(CtxUserID, sess.UserID)
		c.Set(CtxUsername, sess.Username)
		c.Next()
	}
}
