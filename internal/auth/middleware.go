// Bearer-token middleware for Gin.
//
// RequireAuth guards mutating endpoints: a missing or invalid token aborts
// with 401 using the standard error envelope. OptionalAuth resolves an
// identity when a token is present but never blocks the request; read
// endpoints use it so draft visibility can be decided per viewer.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Gin context keys populated by the middleware below.
const (
	ctxUserID   = "userID"
	ctxUsername = "username"
	ctxIsStaff  = "isStaff"
)

// RequireAuth returns middleware that rejects requests without a valid
// bearer token and stores the resolved identity in the context.
func RequireAuth(ts *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, ts)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "authentication required",
			})
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth returns middleware that resolves an identity when a valid
// bearer token is present and otherwise leaves the request anonymous.
func OptionalAuth(ts *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, ts); ok {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// Identity returns the acting user ID and staff flag from the context.
// Both are zero-valued for anonymous requests.
func Identity(c *gin.Context) (userID string, isStaff bool) {
	if v, ok := c.Get(ctxUserID); ok {
		userID, _ = v.(string)
	}
	if v, ok := c.Get(ctxIsStaff); ok {
		isStaff, _ = v.(bool)
	}
	return userID, isStaff
}

// bearerClaims extracts and parses the Authorization header.
func bearerClaims(c *gin.Context, ts *TokenService) (*Claims, bool) {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return nil, false
	}
	raw := strings.TrimSpace(h[len("bearer "):])
	claims, err := ts.Parse(raw)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// setIdentity stores the parsed claims under the context keys the rest of
// the HTTP layer (logging, rate limiting, handlers) reads.
func setIdentity(c *gin.Context, claims *Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUsername, claims.Username)
	c.Set(ctxIsStaff, claims.IsStaff)
}
