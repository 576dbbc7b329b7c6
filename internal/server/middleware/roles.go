package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tour-platform/api/internal/policy/engine"
)

// RequireRoles gates a route to the given role names. Composes after
// Authenticated; the decision itself is delegated to the policy evaluator.
func RequireRoles(eval engine.Evaluator, allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		if !ok {
			AbortWithCode(c, http.StatusForbidden, "Access denied. You do not have the required role.", CodeForbidden)
			return
		}
		permitted, err := eval.Allow(c.Request.Context(), ident.RoleName, allowed)
		if err != nil {
			abortInternal(c)
			return
		}
		if !permitted {
			AbortWithCode(c, http.StatusForbidden, "Access denied. You do not have the required role.", CodeForbidden)
			return
		}
		c.Next()
	}
}
