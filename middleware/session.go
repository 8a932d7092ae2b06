package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fmejia/bloggo/session"
)

const (
	// ContextUserIDKey is the key used to store the verified user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the verified username inside Gin context.
	ContextUsernameKey = "username"
)

// SessionLoader verifies the identity cookies once per request and, when both
// check out, stores the verified identity in the Gin context. Malformed or
// missing cookies resolve to an anonymous request, never an error.
func SessionLoader(sessions *session.Manager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if id, ok := sessions.Authenticate(ctx); ok {
			ctx.Set(ContextUserIDKey, id.UserID)
			ctx.Set(ContextUsernameKey, id.Username)
		}
		ctx.Next()
	}
}

// LoginRequired redirects unauthenticated requests to the login page.
func LoginRequired(sessions *session.Manager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !sessions.IsAuthenticated(ctx) {
			ctx.Redirect(http.StatusFound, "/login")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
