package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-announcer/internal/models"
	appErrors "github.com/noah-isme/sma-announcer/pkg/errors"
	"github.com/noah-isme/sma-announcer/pkg/response"
)

// RequireRoles only lets viewers holding one of roles through.
// It must run after ViewerToken.
func RequireRoles(roles ...models.ViewerRole) gin.HandlerFunc {
	allowed := make(map[models.ViewerRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		value, exists := c.Get(ContextViewerKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := value.(*models.ViewerClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
