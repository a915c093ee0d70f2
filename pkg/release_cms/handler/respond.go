package handler

import (
	"net/http"

	problem "github.com/appdistro/release-cms/pkg/release_cms/helpers/problem"
	"github.com/appdistro/release-cms/pkg/release_cms/middleware"
	"github.com/gin-gonic/gin"
)

// render writes an HTML page with the session user and pending flash
// messages merged into data.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["user"] = middleware.FromContext(c).User
	data["flash"] = middleware.TakeFlash(c)
	c.HTML(status, name, data)
}

// succeed flashes msg and redirects to target.
func succeed(c *gin.Context, target, msg string) {
	middleware.FlashSuccess(c, msg)
	c.Redirect(http.StatusFound, target)
}

// fail sends input errors back to the form at back as flash messages. Any
// other error goes to the error boundary.
func fail(c *gin.Context, err error, back string) {
	if problem.IsStatus(err, http.StatusBadRequest) || problem.IsStatus(err, http.StatusConflict) ||
		problem.IsStatus(err, http.StatusUnauthorized) {
		middleware.FlashErrors(c, problem.Messages(err)...)
		c.Redirect(http.StatusFound, back)
		return
	}
	_ = c.Error(err)
}

// bindForm binds a CMS form post.
func bindForm(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBind(obj); err != nil {
		return problem.NewBadRequest(err.Error())
	}
	return nil
}
