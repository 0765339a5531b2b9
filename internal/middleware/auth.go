package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ritmo-backend/internal/services"
)

// AuthMiddleware resolves the caller from the Authorization header, or from the
// token query parameter for clients that cannot set headers (websockets).
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			header = c.Query("token")
		}

		userID, err := auth.Authorize(c.Request.Context(), header)
		if err != nil {
			_ = c.Error(err)
			c.JSON(authStatus(err), gin.H{"message": authMessage(err)})
			c.Abort()
			return
		}

		c.Set("user_id", userID)

		c.Next()
	}
}

// RequireSelf rejects requests whose :userId path parameter is not the
// authenticated user. Routes without the parameter pass through.
func RequireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		target := c.Param("userId")
		if target == "" {
			c.Next()
			return
		}

		if err := services.Authorized(c.GetString("user_id"), target); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"message": "you are not allowed to act on this user"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func authStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrMissingToken),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrMissingToken):
		return "authorization header required"
	case errors.Is(err, services.ErrInvalidToken):
		return "invalid or expired token"
	case errors.Is(err, services.ErrUnauthorized):
		return "unauthorized"
	default:
		return "something went wrong, please try again"
	}
}
