package mw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"minecontrol-backend/internal/auth"
)

const principalKey = "principal"

// Authenticate reads a Bearer token and stores the caller's principal on the context.
// When required is false, requests without a token continue as anonymous; a token
// that is present but invalid is always rejected.
func Authenticate(iss *auth.Issuer, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
				return
			}
			c.Set(principalKey, auth.Anonymous)
			c.Next()
			return
		}
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		p, err := iss.Parse(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

// SetPrincipal attaches p to the request, for handlers that authenticate the caller
// themselves.
func SetPrincipal(c *gin.Context, p auth.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal stored by Authenticate, or auth.Anonymous.
func PrincipalFrom(c *gin.Context) auth.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(auth.Principal); ok {
			return p
		}
	}
	return auth.Anonymous
}

// RequireRole admits only authenticated callers holding one of roles. Anonymous
// callers get 401 even when Authenticate runs in optional mode.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		if p.IsAnonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		for _, r := range roles {
			if strings.EqualFold(p.Role, r) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}
