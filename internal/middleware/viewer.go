package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-announcer/internal/models"
	appErrors "github.com/noah-isme/sma-announcer/pkg/errors"
	"github.com/noah-isme/sma-announcer/pkg/response"
)

// ContextViewerKey is the gin context key storing viewer token claims.
const ContextViewerKey = "currentViewer"

type tokenValidator interface {
	ValidateToken(token string) (*models.ViewerClaims, error)
}

// ViewerToken protects routes by requiring a valid viewer token.
func ViewerToken(validator tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextViewerKey, claims)
		c.Next()
	}
}
