package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/greenroots/greenroots-backend/internal/auth"
)

const adminEmailKey = "admin_email"

// AdminAuth lets a request through only with a valid admin bearer token.
func AdminAuth(authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		email, err := authSvc.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(adminEmailKey, email)
		c.Next()
	}
}

// AdminEmail is the admin behind the current request, empty outside
// AdminAuth.
func AdminEmail(c *gin.Context) string {
	return c.GetString(adminEmailKey)
}
