package middleware

import (
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/gin-gonic/gin"
)

const requestContextKey = "release_cms.request"

// RequestContext is the per-request state shared by the middlewares and
// handlers.
type RequestContext struct {
	// APICall selects the JSON response mode.
	APICall bool
	APIKey  *models.APIKey
	User    *models.User
}

// FromContext returns the request's RequestContext, creating it on first use.
func FromContext(c *gin.Context) *RequestContext {
	if v, ok := c.Get(requestContextKey); ok {
		if rc, ok := v.(*RequestContext); ok {
			return rc
		}
	}
	rc := &RequestContext{}
	c.Set(requestContextKey, rc)
	return rc
}

// MarkAPICall switches every request in the group to API mode.
func MarkAPICall() gin.HandlerFunc {
	return func(c *gin.Context) {
		FromContext(c).APICall = true
		c.Next()
	}
}

func IsAPICall(c *gin.Context) bool {
	return FromContext(c).APICall
}
