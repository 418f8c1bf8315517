package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"legalbrief-backend/internal/shared/session"
)

const (
	sessionIDKey  = "sessionId"
	sessionCookie = "session_id"
)

// Session binds every request to an anonymous server-issued session.
// A missing or expired cookie gets a fresh session transparently; the
// session id is the sole authorization boundary for document access.
func Session(manager *session.Manager, env string) gin.HandlerFunc {
	secure := env == "production"
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || !manager.Validate(id) {
			id = manager.Issue()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, int(manager.TTL().Seconds()), "/", "", secure, true)
		}
		c.Set(sessionIDKey, id)
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
