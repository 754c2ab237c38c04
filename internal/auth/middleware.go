// Package auth resolves the opaque bearer credential on sync requests.
//
// Credential issuance is not this subsystem's business: the token is a
// reading-session id minted elsewhere. The middleware only checks that a
// live session record exists behind it and refreshes the session's
// activity on every authenticated request.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/pagekeeper/internal/session"
)

// Context keys for user data
const (
	ContextKeyUserID    = "auth_user_id"
	ContextKeySessionID = "auth_session_id"
)

// Middleware authenticates sync API requests against session records.
type Middleware struct {
	sessions *session.Manager
}

// NewMiddleware creates the bearer-token middleware.
func NewMiddleware(sessions *session.Manager) *Middleware {
	return &Middleware{sessions: sessions}
}

// Handler returns a Gin middleware that requires a live session. Each
// authenticated request counts as activity and refreshes the session
// under the active TTL.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		record := m.sessions.Touch(token)
		if record == nil {
			// Expired and never-created look identical here.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(ContextKeyUserID, record.UserID)
		c.Set(ContextKeySessionID, record.ID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by the middleware.
func UserID(c *gin.Context) string {
	if id, ok := c.Get(ContextKeyUserID); ok {
		if userID, ok := id.(string); ok {
			return userID
		}
	}
	return ""
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
