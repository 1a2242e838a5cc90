package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"meddoc-backend/internal/shared/server/respond"
)

const (
	// SessionHeader carries the browser session identifier.
	SessionHeader = "X-Session-Id"

	sessionIDKey     = "sessionId"
	maxSessionIDSize = 128
)

// Session requires the session header and stores its value in context.
// touch, when non-nil, is called with every accepted session ID.
func Session(touch func(sessionID string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		sessionID := strings.TrimSpace(c.GetHeader(SessionHeader))
		if sessionID == "" {
			respond.Error(c, http.StatusUnauthorized, "missing_session", "Missing "+SessionHeader+" header", nil)
			return
		}
		if len(sessionID) > maxSessionIDSize || strings.ContainsAny(sessionID, "/\\") {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid session id", nil)
			return
		}

		c.Set(sessionIDKey, sessionID)
		if touch != nil {
			touch(sessionID)
		}
		c.Next()
	}
}

// SessionIDFromContext fetches the session ID set by the Session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
