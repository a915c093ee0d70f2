package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	problem "github.com/appdistro/release-cms/pkg/release_cms/helpers/problem"
	"github.com/gin-gonic/gin"
)

// ErrorTemplate is rendered for failed CMS and public page requests outside
// production.
const ErrorTemplate = "error.html"

// ErrorBoundary renders the last error recorded with c.Error, unless the
// handler already wrote a response. API calls get the JSON envelope; page
// requests get the bare message in production and an error page otherwise.
func ErrorBoundary(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		apiErr := problem.From(err)
		if apiErr.Status >= http.StatusInternalServerError {
			slog.Error(err.Error(), "method", c.Request.Method, "path", c.Request.URL.Path)
		}
		if c.Writer.Written() {
			return
		}

		if IsAPICall(c) {
			status, body := problem.Render(err, !production)
			c.JSON(status, body)
			return
		}
		if production {
			c.String(apiErr.Status, apiErr.Message)
			return
		}
		c.HTML(apiErr.Status, ErrorTemplate, gin.H{
			"title":   apiErr.Title,
			"status":  apiErr.Status,
			"message": apiErr.Message,
			"stack":   fmt.Sprintf("%+v", err),
		})
	}
}
