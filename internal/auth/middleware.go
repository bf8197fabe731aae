package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eclora/eclora-api/internal/domain/user"
)

const claimsKey = "authClaims"

// Protect rejects requests that do not carry a valid bearer token.
func (m *Manager) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.bearerClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "authentication required",
			})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAdmin rejects authenticated requests whose token lacks the admin
// role. It must run after Protect.
func (m *Manager) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil || claims.Role != user.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "admin access required",
			})
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches claims when a valid token is present and lets the
// request through either way. Invalid tokens are treated as anonymous.
func (m *Manager) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := m.bearerClaims(c); ok {
			c.Set(claimsKey, claims)
		}
		c.Next()
	}
}

func (m *Manager) bearerClaims(c *gin.Context) (*Claims, bool) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, false
	}
	claims, err := m.Verify(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// ClaimsFrom returns the claims attached by Protect or OptionalAuth, or nil
// for anonymous requests.
func ClaimsFrom(c *gin.Context) *Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
