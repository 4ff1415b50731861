package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gobarber/gobarber-client/internal/models"
	"github.com/gobarber/gobarber-client/pkg/jwt"
	"github.com/gobarber/gobarber-client/pkg/logger"
	"go.uber.org/zap"
)

// UserIDKey is the gin context key holding the authenticated user's id
const UserIDKey = "user_id"

// BearerAuthMiddleware validates the "Authorization: Bearer <jwt>" header
// and stores the token's user id under UserIDKey
func BearerAuthMiddleware(tokens *jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			logger.Warn("Missing bearer token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "JWT token is missing"})
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			message := "Invalid JWT token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "JWT token has expired"
			}
			logger.Warn("Rejected bearer token",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: message})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}
