// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/storefront-backend/internal/config"
)

const sessionCookieName = "session_id"

// Session ensures every cart or checkout request carries a session cookie so
// guests get a stable cart identity. Authenticated requests keep the cookie
// too; it is what MergeGuestCart folds in on login.
func Session(cfg *config.Config) gin.HandlerFunc {
	maxAge := int(cfg.Checkout.SessionCookieTTL.Seconds())

	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
			c.SetCookie(sessionCookieName, sessionID, maxAge, "/", "", cfg.IsProduction(), true)
		}

		c.Set(sessionCookieName, sessionID)

		c.Next()
	}
}

// GetSessionIDFromContext extracts the session ID from gin context
func GetSessionIDFromContext(c *gin.Context) string {
	if sessionID, exists := c.Get(sessionCookieName); exists {
		return sessionID.(string)
	}
	return ""
}
