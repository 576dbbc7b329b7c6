// Package middleware carries the authentication and authorization chain for
// the HTTP surface.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	ID       string
	Username string
	Email    string
	RoleID   string
	RoleName string
}

const identityKey = "auth.identity"

type clientIPKey struct{}

// SetIdentity attaches the authenticated identity to the gin context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity set by the authentication middleware.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// ClientIP stashes the caller's IP into the request context so code below the
// HTTP layer (the audit logger) can read it without seeing gin.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), clientIPKey{}, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ClientIPFromContext returns the client IP stashed by ClientIP, or "".
func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
