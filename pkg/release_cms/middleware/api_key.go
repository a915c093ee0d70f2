package middleware

import (
	"context"

	problem "github.com/appdistro/release-cms/pkg/release_cms/helpers/problem"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/gin-gonic/gin"
)

type KeyAuthenticator interface {
	Authenticate(ctx context.Context, header string) (*models.APIKey, error)
}

// RequireAPIKey rejects requests whose Authorization header does not carry
// a known API key.
func RequireAPIKey(auth KeyAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		FromContext(c).APIKey = key
		c.Next()
	}
}

// RequireProjectAccess checks the authenticated key against the :id path
// parameter. Routes without :id only admit wildcard keys.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := FromContext(c).APIKey
		if key == nil || !key.Authorizes(c.Param("id")) {
			_ = c.Error(problem.NewUnauthorized("Unauthorized for this project"))
			c.Abort()
			return
		}
		c.Next()
	}
}
