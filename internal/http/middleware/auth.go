package middleware

import (
	"net/http"

	"krishilink/internal/auth"
	"krishilink/internal/domain"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// RequireAuth resolves the caller through the configured issuer and stores
// the principal, "userID" and "userRole" on the context.
func RequireAuth(issuer auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := issuer.Authenticate(c.Request)
		if err != nil {
			msg := "Authentication required"
			if domain.IsAuthentication(err) {
				msg = err.Error()
			}
			abort(c, http.StatusUnauthorized, "unauthorized", msg)
			return
		}
		SetPrincipal(c, p)
		c.Next()
	}
}

func SetPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(principalKey, p)
	c.Set("userID", p.UserID)
	c.Set("userRole", p.Role)
}

// PrincipalFrom returns the principal stored by RequireAuth.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}
