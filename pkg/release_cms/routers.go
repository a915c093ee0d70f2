package release_cms

import (
	"net/http"
	"strings"

	"github.com/appdistro/release-cms/pkg/release_cms/handler"
	"github.com/appdistro/release-cms/pkg/release_cms/middleware"
	"github.com/appdistro/release-cms/pkg/release_cms/views"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/loopfz/gadgeto/tonic"
	"github.com/wI2L/fizz"
	"github.com/wI2L/fizz/openapi"
)

var (
	unauthorizedResponse = fizz.Response("401", "Missing or foreign API key", nil, nil, nil)
	notFoundResponse     = fizz.Response("404", "Project or release not found", nil, nil, nil)
	badRequestResponse   = fizz.Response("400", "Invalid input", nil, nil, nil)
)

// Controllers groups everything NewRouter mounts.
type Controllers struct {
	API      *handler.ReleasesAPIController
	Assets   *handler.AssetController
	CMS      *handler.CMSController
	Accounts *handler.AccountController
	Keys     middleware.KeyAuthenticator
	Users    middleware.UserLoader
	Sessions *middleware.SessionManager
}

func NewRouter(version string, production bool, ctl Controllers) (*fizz.Fizz, error) {
	tonic.SetErrorHook(handler.ErrorHook(production))
	tonic.SetBindHook(handler.BindHook)

	templates, err := views.Templates()
	if err != nil {
		return nil, err
	}

	g := gin.New()
	g.Use(gin.Recovery(), middleware.Logger(), corsMiddleware(), middleware.ErrorBoundary(production))
	g.SetHTMLTemplate(templates)
	f := fizz.NewFromEngine(g)

	info := &openapi.Info{
		Title:       "Release CMS API",
		Description: "Projects, release tracks and artifact downloads",
		Version:     version,
	}

	// API, JSON mode
	api := f.Group("/api", "API", "Release distribution API", middleware.MarkAPICall())
	api.GET("/projects/:id",
		[]fizz.OperationOption{fizz.ID("retrieveProject"), fizz.Summary("Project with releases per track"), notFoundResponse},
		tonic.Handler(ctl.API.RetrieveProject, http.StatusOK),
	)
	api.GET("/projects/:id/releases/latest",
		[]fizz.OperationOption{fizz.ID("latestReleases"), fizz.Summary("Latest release of every track"), notFoundResponse},
		tonic.Handler(ctl.API.LatestReleases, http.StatusOK),
	)
	api.GET("/projects/:id/releases/:releaseId/download", nil, ctl.Assets.Download)
	api.GET("/projects/:id/releases/:releaseId/manifest.plist", nil, ctl.Assets.Manifest)

	write := api.Group("", "Write", "Requires an API key scoped to the project",
		middleware.RequireAPIKey(ctl.Keys), middleware.RequireProjectAccess())
	write.POST("/projects",
		[]fizz.OperationOption{fizz.ID("createProject"), fizz.Summary("Create a project"), badRequestResponse, unauthorizedResponse,
			fizz.Response("409", "Project id already taken", nil, nil, nil)},
		tonic.Handler(ctl.API.CreateProject, http.StatusOK),
	)
	write.PATCH("/projects/:id",
		[]fizz.OperationOption{fizz.ID("updateProject"), fizz.Summary("Update a project"), badRequestResponse, unauthorizedResponse, notFoundResponse},
		tonic.Handler(ctl.API.UpdateProject, http.StatusOK),
	)
	write.POST("/projects/:id/releases",
		[]fizz.OperationOption{fizz.ID("createRelease"), fizz.Summary("Upload a release"), badRequestResponse, unauthorizedResponse, notFoundResponse},
		tonic.Handler(ctl.API.CreateRelease, http.StatusOK),
	)
	write.PATCH("/projects/:id/releases/:releaseId",
		[]fizz.OperationOption{fizz.ID("updateRelease"), fizz.Summary("Update a release"), badRequestResponse, unauthorizedResponse, notFoundResponse},
		tonic.Handler(ctl.API.UpdateRelease, http.StatusOK),
	)
	write.DELETE("/projects/:id/releases/:releaseId",
		[]fizz.OperationOption{fizz.ID("deleteRelease"), fizz.Summary("Delete a release and its file"), unauthorizedResponse, notFoundResponse},
		tonic.Handler(ctl.API.DeleteRelease, http.StatusNoContent),
	)

	f.GET("/api/openapi.json", nil, f.OpenAPI(info, "json"))

	// CMS, HTML mode
	g.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/cms") })
	g.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	g.GET(middleware.LoginPath, ctl.Accounts.LoginPage)
	g.POST(middleware.LoginPath, ctl.Accounts.Login)
	g.GET("/cms/logout", ctl.Accounts.Logout)

	cms := g.Group("/cms", ctl.Sessions.RequireLogin(ctl.Users))
	cms.GET("", ctl.CMS.Index)
	cms.GET("/account", ctl.Accounts.Account)
	cms.POST("/account/profile", ctl.Accounts.UpdateProfile)
	cms.POST("/account/password", ctl.Accounts.UpdatePassword)
	cms.GET("/api_keys", ctl.Accounts.ListAPIKeys)
	cms.GET("/api_keys/create", ctl.Accounts.NewAPIKey)
	cms.POST("/api_keys/create", ctl.Accounts.CreateAPIKey)
	cms.POST("/api_keys/:keyId/delete", ctl.Accounts.RevokeAPIKey)
	cms.GET("/projects", ctl.CMS.ListProjects)
	cms.GET("/projects/create", ctl.CMS.NewProject)
	cms.POST("/projects/create", ctl.CMS.CreateProject)
	cms.GET("/projects/:id", ctl.CMS.ShowProject)
	cms.GET("/projects/:id/edit", ctl.CMS.EditProject)
	cms.POST("/projects/:id/edit", ctl.CMS.UpdateProject)
	cms.GET("/projects/:id/releases/create", ctl.CMS.NewRelease)
	cms.POST("/projects/:id/releases/create", ctl.CMS.CreateRelease)
	cms.GET("/projects/:id/releases/:releaseId/edit", ctl.CMS.EditRelease)
	cms.POST("/projects/:id/releases/:releaseId/edit", ctl.CMS.UpdateRelease)
	cms.GET("/projects/:id/releases/:releaseId/delete", ctl.CMS.ConfirmDeleteRelease)
	cms.POST("/projects/:id/releases/:releaseId/delete", ctl.CMS.DeleteRelease)

	// public pages and assets
	g.GET("/:id", ctl.Assets.ProjectPage)
	g.GET("/:id/image", ctl.Assets.Image)
	g.GET("/:id/download/:releaseId", ctl.Assets.Download)
	g.GET("/:id/manifest/:releaseId", ctl.Assets.Manifest)

	return f, nil
}

// corsMiddleware opens the API to every origin and method. Everything else
// is readable cross origin but not writable.
func corsMiddleware() gin.HandlerFunc {
	api := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	})
	public := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet},
		AllowHeaders:    []string{"Origin"},
	})
	return func(c *gin.Context) {
		if isAPIPath(c.Request.URL.Path) {
			api(c)
			return
		}
		public(c)
	}
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
