package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusops/enrollments-api/internal/models"
	appErrors "github.com/campusops/enrollments-api/pkg/errors"
	"github.com/campusops/enrollments-api/pkg/response"
)

// ContextUserKey is the gin context key storing verified token claims.
const ContextUserKey = "currentUser"

type tokenVerifier interface {
	ValidateToken(token string) (*models.TokenClaims, error)
}

// JWT guards mutating enrollment routes behind a valid bearer token. Read
// routes are mounted outside this middleware.
func JWT(tokens tokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "missing authorization header")
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return token, nil
}
