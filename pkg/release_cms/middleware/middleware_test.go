package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	problem "github.com/appdistro/release-cms/pkg/release_cms/helpers/problem"
	"github.com/appdistro/release-cms/pkg/release_cms/middleware"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubKeys map[string]*models.APIKey

func (s stubKeys) Authenticate(_ context.Context, header string) (*models.APIKey, error) {
	if k, ok := s[header]; ok {
		return k, nil
	}
	return nil, problem.NewUnauthorized("Unauthorized")
}

type stubUsers map[string]*models.User

func (s stubUsers) FindUser(_ context.Context, id string) (*models.User, error) {
	return s[id], nil
}

// carryCookies copies the cookies a response left set onto req, the way a
// browser would.
func carryCookies(req *http.Request, w *httptest.ResponseRecorder) {
	latest := map[string]*http.Cookie{}
	for _, ck := range w.Result().Cookies() {
		latest[ck.Name] = ck
	}
	for _, ck := range latest {
		if ck.MaxAge >= 0 {
			req.AddCookie(ck)
		}
	}
}

func apiEngine(keys stubKeys) *gin.Engine {
	g := gin.New()
	g.Use(middleware.ErrorBoundary(true))
	api := g.Group("/api", middleware.MarkAPICall(), middleware.RequireAPIKey(keys), middleware.RequireProjectAccess())
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	api.POST("/projects", ok)
	api.PATCH("/projects/:id", ok)
	return g
}

func TestAPIKeyStateMachine(t *testing.T) {
	g := apiEngine(stubKeys{
		"wild":   {ID: "1", ProjectId: models.WildcardProject},
		"scoped": {ID: "2", ProjectId: "demo"},
	})

	tests := []struct {
		name   string
		method string
		path   string
		key    string
		status int
	}{
		{"no key", http.MethodPatch, "/api/projects/demo", "", http.StatusUnauthorized},
		{"unknown key", http.MethodPatch, "/api/projects/demo", "nope", http.StatusUnauthorized},
		{"project mismatch", http.MethodPatch, "/api/projects/other", "scoped", http.StatusUnauthorized},
		{"project match", http.MethodPatch, "/api/projects/demo", "scoped", http.StatusNoContent},
		{"wildcard", http.MethodPatch, "/api/projects/other", "wild", http.StatusNoContent},
		{"create needs wildcard", http.MethodPost, "/api/projects", "scoped", http.StatusUnauthorized},
		{"create with wildcard", http.MethodPost, "/api/projects", "wild", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.key != "" {
				req.Header.Set("Authorization", tt.key)
			}
			w := httptest.NewRecorder()
			g.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestProjectMismatchMessage(t *testing.T) {
	g := apiEngine(stubKeys{"scoped": {ID: "2", ProjectId: "demo"}})

	req := httptest.NewRequest(http.MethodPatch, "/api/projects/other", nil)
	req.Header.Set("Authorization", "scoped")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)

	var body problem.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized for this project", body.Error.Message)
	assert.Equal(t, http.StatusUnauthorized, body.Error.Status)
	assert.Empty(t, body.Error.Stack)
}

func TestErrorBoundary_Modes(t *testing.T) {
	fail := func(c *gin.Context) { _ = c.Error(errors.Wrap(problem.NewNotFound("Project Not found"), "lookup")) }

	g := gin.New()
	g.Use(middleware.ErrorBoundary(false))
	g.GET("/api/x", middleware.MarkAPICall(), fail)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body problem.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Project Not found", body.Error.Message)
	assert.NotEmpty(t, body.Error.Stack)

	prod := gin.New()
	prod.Use(middleware.ErrorBoundary(true))
	prod.GET("/x", fail)
	w = httptest.NewRecorder()
	prod.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Project Not found", w.Body.String())
}

func TestErrorBoundary_UnexpectedErrorIs500(t *testing.T) {
	g := gin.New()
	g.Use(middleware.ErrorBoundary(true))
	g.GET("/api/x", middleware.MarkAPICall(), func(c *gin.Context) { _ = c.Error(errors.New("db down")) })

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/x", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSession_RequireLogin(t *testing.T) {
	sessions := middleware.NewSessionManager("secret", false)
	users := stubUsers{"u1": {ID: "u1", Email: "admin@example.com"}}

	g := gin.New()
	g.GET("/login-as/:id", func(c *gin.Context) {
		require.NoError(t, sessions.Issue(c, c.Param("id")))
		c.Status(http.StatusOK)
	})
	g.GET("/cms/projects", sessions.RequireLogin(users), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.FromContext(c).User.Email)
	})
	g.GET("/after-login", func(c *gin.Context) {
		c.String(http.StatusOK, sessions.TakeReturnTo(c))
	})

	// anonymous visitors are sent to the login page
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cms/projects?page=2", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/after-login", nil)
	carryCookies(req, w)
	w = httptest.NewRecorder()
	g.ServeHTTP(w, req)
	assert.Equal(t, "/cms/projects?page=2", w.Body.String())

	// a valid session reaches the handler
	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as/u1", nil))
	req = httptest.NewRequest(http.MethodGet, "/cms/projects", nil)
	carryCookies(req, w)
	w = httptest.NewRecorder()
	g.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@example.com", w.Body.String())

	// a session for a deleted user is rejected
	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login-as/ghost", nil))
	req = httptest.NewRequest(http.MethodGet, "/cms/projects", nil)
	carryCookies(req, w)
	w = httptest.NewRecorder()
	g.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestSession_RejectsForeignSignature(t *testing.T) {
	issuer := middleware.NewSessionManager("one", false)
	verifier := middleware.NewSessionManager("two", false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, issuer.Issue(c, "u1"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(req, w)
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	_, err := verifier.UserID(c)
	assert.ErrorIs(t, err, middleware.ErrInvalidSession)
}

func TestTakeReturnTo_IgnoresForeignTargets(t *testing.T) {
	sessions := middleware.NewSessionManager("secret", false)
	for _, target := range []string{"https://evil.example", "//evil.example", "relative"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "release_cms_return_to", Value: target})
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = req
		assert.Equal(t, middleware.DefaultLanding, sessions.TakeReturnTo(c), target)
	}
}

func TestFlash(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	middleware.FlashSuccess(c, "saved")
	middleware.FlashErrors(c, "Name is required", "Track is required")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	carryCookies(req, w)
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	f := middleware.TakeFlash(c)
	assert.Equal(t, []string{"saved"}, f.Success)
	assert.Equal(t, []string{"Name is required", "Track is required"}, f.Errors)
	assert.True(t, middleware.TakeFlash(c).Empty())
}
