package middleware

import (
	"net/http"
	"strings"

	"github.com/SchoolMenu/nutrition-sona/internal/auth"
	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	KeyUserID     = "userID"
	KeyUserEmail  = "userEmail"
	KeyUserRole   = "userRole"
	KeySchoolCode = "schoolCode"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
			c.Abort()
			return
		}

		// Attach user info to request context
		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyUserEmail, claims.Email)
		c.Set(KeyUserRole, claims.Role)
		c.Set(KeySchoolCode, claims.SchoolCode)
		c.Next()
	}
}
