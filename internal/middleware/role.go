package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/randy-rebucas/localpro-pos-sub001/internal/domain"
	"github.com/randy-rebucas/localpro-pos-sub001/pkg/response"
)

// RequireRole rejects requests whose identity does not satisfy the minimum
// level among the required roles. The check is monotonic over the role
// hierarchy, so a manager passes any cashier requirement. Anonymous requests
// are rejected with 401.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized(""))
			return
		}

		if !identity.Role.Satisfies(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Forbidden("Insufficient permissions"))
			return
		}

		c.Next()
	}
}
