package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextClaims is the gin context key the parsed claims are stored under.
const ContextClaims = "claims"

// TeacherAuth enforces bearer JWT tokens carrying the teacher role.
func TeacherAuth(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "msg": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "msg": "invalid token"})
			return
		}
		if claims.Role != RoleTeacher {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"status": "error", "msg": "teacher role required"})
			return
		}
		c.Set(ContextClaims, claims)
		c.Next()
	}
}
