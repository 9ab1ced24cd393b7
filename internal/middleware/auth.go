package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"clinic-records-server/internal/apperrors"
	"clinic-records-server/internal/config"
	"clinic-records-server/internal/utils"
)

// AuthMiddleware creates a middleware for JWT authentication. Every
// mutating and dispatch route sits behind it; there is a single staff
// role, so a valid token is the entire authorization decision.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, apperrors.Unauthenticatedf("authorization header required"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondError(c, apperrors.Unauthenticatedf("invalid authorization header format"))
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			utils.RespondError(c, apperrors.Unauthenticatedf("invalid token: %v", err))
			c.Abort()
			return
		}

		// Set user information in context for downstream handlers
		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)

		c.Next()
	}
}

// GetUserIDFromContext returns the acting user's id resolved by
// AuthMiddleware.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	idStr, ok := userID.(string)
	return idStr, ok
}
