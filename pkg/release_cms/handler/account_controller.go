package handler

import (
	"fmt"
	"net/http"

	"github.com/appdistro/release-cms/pkg/release_cms/helpers/util"
	"github.com/appdistro/release-cms/pkg/release_cms/middleware"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/appdistro/release-cms/pkg/release_cms/services"
	"github.com/gin-gonic/gin"
)

const accountURL = "/cms/account"

// AccountController handles login, the operator's own account and API keys.
type AccountController struct {
	Accounts *services.AccountService
	Keys     *services.APIKeyService
	Projects *services.ProjectService
	Sessions *middleware.SessionManager
}

func NewAccountController(accounts *services.AccountService, keys *services.APIKeyService, projects *services.ProjectService, sessions *middleware.SessionManager) *AccountController {
	return &AccountController{Accounts: accounts, Keys: keys, Projects: projects, Sessions: sessions}
}

// LoginPage handles GET /cms/login
func (ctl *AccountController) LoginPage(c *gin.Context) {
	if id, err := ctl.Sessions.UserID(c); err == nil {
		if u, err := ctl.Accounts.FindUser(c.Request.Context(), id); err == nil && u != nil {
			c.Redirect(http.StatusFound, middleware.DefaultLanding)
			return
		}
	}
	render(c, http.StatusOK, "login.html", gin.H{"title": "Login"})
}

// Login handles POST /cms/login
func (ctl *AccountController) Login(c *gin.Context) {
	var in models.LoginInput
	if err := bindForm(c, &in); err != nil {
		fail(c, err, middleware.LoginPath)
		return
	}
	u, err := ctl.Accounts.Login(c.Request.Context(), in)
	if err != nil {
		fail(c, err, middleware.LoginPath)
		return
	}
	if err := ctl.Sessions.Issue(c, u.ID); err != nil {
		_ = c.Error(err)
		return
	}
	succeed(c, ctl.Sessions.TakeReturnTo(c), "Success! You are logged in.")
}

// Logout handles GET /cms/logout
func (ctl *AccountController) Logout(c *gin.Context) {
	ctl.Sessions.Clear(c)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// Account handles GET /cms/account
func (ctl *AccountController) Account(c *gin.Context) {
	render(c, http.StatusOK, "account.html", gin.H{"title": "Account Management"})
}

// UpdateProfile handles POST /cms/account/profile
func (ctl *AccountController) UpdateProfile(c *gin.Context) {
	var in models.ProfileInput
	if err := bindForm(c, &in); err != nil {
		fail(c, err, accountURL)
		return
	}
	if err := ctl.Accounts.UpdateProfile(c.Request.Context(), middleware.FromContext(c).User, in); err != nil {
		fail(c, err, accountURL)
		return
	}
	succeed(c, accountURL, "Profile information has been updated.")
}

// UpdatePassword handles POST /cms/account/password
func (ctl *AccountController) UpdatePassword(c *gin.Context) {
	var in models.PasswordInput
	if err := bindForm(c, &in); err != nil {
		fail(c, err, accountURL)
		return
	}
	if err := ctl.Accounts.UpdatePassword(c.Request.Context(), middleware.FromContext(c).User, in); err != nil {
		fail(c, err, accountURL)
		return
	}
	succeed(c, accountURL, "Password has been changed.")
}

// ListAPIKeys handles GET /cms/api_keys
func (ctl *AccountController) ListAPIKeys(c *gin.Context) {
	keys, err := ctl.Keys.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	views := make([]models.APIKeyView, len(keys))
	for i := range keys {
		views[i] = util.ToAPIKeyView(&keys[i])
	}
	render(c, http.StatusOK, "api_keys.html", gin.H{"title": "API Keys", "keys": views})
}

// NewAPIKey handles GET /cms/api_keys/create
func (ctl *AccountController) NewAPIKey(c *gin.Context) {
	projects, err := ctl.Projects.ListProjects(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	render(c, http.StatusOK, "api_key_form.html", gin.H{
		"title":    "Create API Key",
		"projects": projects,
		"wildcard": models.WildcardProject,
	})
}

// CreateAPIKey handles POST /cms/api_keys/create. The token is only ever
// shown in this flash message.
func (ctl *AccountController) CreateAPIKey(c *gin.Context) {
	var in models.APIKeyInput
	if err := bindForm(c, &in); err != nil {
		fail(c, err, "/cms/api_keys/create")
		return
	}
	key, token, err := ctl.Keys.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err, "/cms/api_keys/create")
		return
	}
	succeed(c, "/cms/api_keys", fmt.Sprintf("Success! Created %s API Key: %s", key.Name, token))
}

// RevokeAPIKey handles POST /cms/api_keys/:keyId/delete
func (ctl *AccountController) RevokeAPIKey(c *gin.Context) {
	if err := ctl.Keys.Revoke(c.Request.Context(), c.Param("keyId")); err != nil {
		_ = c.Error(err)
		return
	}
	succeed(c, "/cms/api_keys", "API key revoked.")
}
