package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets the request through only when "userRole", set by
// RequireAuth, is one of allowedRoles.
//
//	r.POST("/listings", RequireAuth(issuer), RequireRoles("farmer", "seller"), handler)
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(strings.TrimSpace(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString("userRole")
		if role == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(role))]; !ok {
			abort(c, http.StatusForbidden, "forbidden", "Your role cannot perform this action")
			return
		}
		c.Next()
	}
}
