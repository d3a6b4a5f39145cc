package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/DavCode46/wander-whiskers-server/errors"
	"github.com/DavCode46/wander-whiskers-server/services"
)

const (
	UserIDKey   = "userID"
	UsernameKey = "username"
)

// Authenticate validates the Bearer token and stores the caller's identity in
// the gin context.
func Authenticate(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortWith(c, apperrors.ErrUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tokens.ParseToken(tokenStr)
		if err != nil {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		userID, _ := claims["id"].(string)
		username, _ := claims["username"].(string)
		if userID == "" {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UsernameKey, username)
		c.Next()
	}
}

// GetUserID returns the authenticated user's id set by Authenticate.
func GetUserID(c *gin.Context) string {
	if val, exists := c.Get(UserIDKey); exists {
		return val.(string)
	}
	return ""
}

func abortWith(c *gin.Context, err *apperrors.Error) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}
