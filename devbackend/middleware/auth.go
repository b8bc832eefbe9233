package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cleancity/api"
)

// TokenVerifier is the part of the database service middleware needs.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// UserIDKey is where the authenticated user id lands in the gin context.
const UserIDKey = "userID"

// Auth requires a valid bearer token and stores the caller's user id.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				api.ErrorResponse{Error: "missing bearer token"})
			return
		}

		userID, err := verifier.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				api.ErrorResponse{Error: "invalid or expired token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
