package handler

import (
	"fmt"
	"net/http"

	"github.com/appdistro/release-cms/pkg/release_cms/helpers/util"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/appdistro/release-cms/pkg/release_cms/services"
	"github.com/gin-gonic/gin"
)

// CMSController serves the session protected project and release pages.
type CMSController struct {
	Projects      *services.ProjectService
	Releases      *services.ReleaseService
	ServerAddress string
}

func NewCMSController(projects *services.ProjectService, releases *services.ReleaseService, serverAddress string) *CMSController {
	return &CMSController{Projects: projects, Releases: releases, ServerAddress: serverAddress}
}

func projectURL(id string) string {
	return "/cms/projects/" + id
}

// Index handles GET /cms
func (ctl *CMSController) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/cms/projects")
}

// ListProjects handles GET /cms/projects
func (ctl *CMSController) ListProjects(c *gin.Context) {
	projects, err := ctl.Projects.ListProjects(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	views := make([]models.ProjectView, len(projects))
	for i := range projects {
		views[i] = util.ToProjectView(&projects[i], nil, ctl.ServerAddress)
	}
	render(c, http.StatusOK, "projects.html", gin.H{"title": "Projects", "projects": views})
}

// ShowProject handles GET /cms/projects/:id
func (ctl *CMSController) ShowProject(c *gin.Context) {
	p, releases, err := ctl.Projects.ProjectWithReleases(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	render(c, http.StatusOK, "project.html", gin.H{
		"title":   p.Name,
		"project": util.ToProjectView(p, releases, ctl.ServerAddress),
	})
}

// NewProject handles GET /cms/projects/create
func (ctl *CMSController) NewProject(c *gin.Context) {
	render(c, http.StatusOK, "project_form.html", gin.H{
		"title":  "Create project",
		"action": "/cms/projects/create",
		"create": true,
	})
}

// CreateProject handles POST /cms/projects/create
func (ctl *CMSController) CreateProject(c *gin.Context) {
	var body models.CreateProjectRequest
	if err := bindForm(c, &body); err != nil {
		fail(c, err, "/cms/projects/create")
		return
	}
	p, err := ctl.Projects.CreateProject(c.Request.Context(), body.Input(), body.File)
	if err != nil {
		fail(c, err, "/cms/projects/create")
		return
	}
	succeed(c, projectURL(p.Id), fmt.Sprintf("Success! Created project %s.", p.Name))
}

// EditProject handles GET /cms/projects/:id/edit
func (ctl *CMSController) EditProject(c *gin.Context) {
	p, err := ctl.Projects.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	render(c, http.StatusOK, "project_form.html", gin.H{
		"title":   "Edit " + p.Name,
		"action":  projectURL(p.Id) + "/edit",
		"project": util.ToProjectView(p, nil, ctl.ServerAddress),
	})
}

// UpdateProject handles POST /cms/projects/:id/edit
func (ctl *CMSController) UpdateProject(c *gin.Context) {
	id := c.Param("id")
	back := projectURL(id) + "/edit"

	var body models.UpdateProjectRequest
	if err := bindForm(c, &body); err != nil {
		fail(c, err, back)
		return
	}
	p, err := ctl.Projects.UpdateProject(c.Request.Context(), id, body.Input(), body.File)
	if err != nil {
		fail(c, err, back)
		return
	}
	succeed(c, projectURL(p.Id), "Success! Project updated.")
}

// NewRelease handles GET /cms/projects/:id/releases/create
func (ctl *CMSController) NewRelease(c *gin.Context) {
	p, err := ctl.Projects.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	render(c, http.StatusOK, "release_form.html", gin.H{
		"title":   "New release for " + p.Name,
		"action":  projectURL(p.Id) + "/releases/create",
		"project": util.ToProjectView(p, nil, ctl.ServerAddress),
		"create":  true,
	})
}

// CreateRelease handles POST /cms/projects/:id/releases/create
func (ctl *CMSController) CreateRelease(c *gin.Context) {
	id := c.Param("id")
	back := projectURL(id) + "/releases/create"

	var body models.CreateReleaseRequest
	if err := bindForm(c, &body); err != nil {
		fail(c, err, back)
		return
	}
	r, err := ctl.Releases.CreateRelease(c.Request.Context(), id, body.Input(), body.File)
	if err != nil {
		fail(c, err, back)
		return
	}
	succeed(c, projectURL(id), fmt.Sprintf("Success! Created release %s on %s.", r.Name, r.Track))
}

// EditRelease handles GET /cms/projects/:id/releases/:releaseId/edit
func (ctl *CMSController) EditRelease(c *gin.Context) {
	p, r, err := ctl.Releases.GetRelease(c.Request.Context(), c.Param("id"), c.Param("releaseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	render(c, http.StatusOK, "release_form.html", gin.H{
		"title":   "Edit release " + r.Name,
		"action":  projectURL(p.Id) + "/releases/" + r.Id + "/edit",
		"project": util.ToProjectView(p, nil, ctl.ServerAddress),
		"release": util.ToReleaseView(r, ctl.ServerAddress),
	})
}

// UpdateRelease handles POST /cms/projects/:id/releases/:releaseId/edit
func (ctl *CMSController) UpdateRelease(c *gin.Context) {
	id, releaseID := c.Param("id"), c.Param("releaseId")
	back := projectURL(id) + "/releases/" + releaseID + "/edit"

	var body models.UpdateReleaseRequest
	if err := bindForm(c, &body); err != nil {
		fail(c, err, back)
		return
	}
	if _, err := ctl.Releases.UpdateRelease(c.Request.Context(), id, releaseID, body.Input(), body.File); err != nil {
		fail(c, err, back)
		return
	}
	succeed(c, projectURL(id), "Success! Release updated.")
}

// ConfirmDeleteRelease handles GET /cms/projects/:id/releases/:releaseId/delete
func (ctl *CMSController) ConfirmDeleteRelease(c *gin.Context) {
	p, r, err := ctl.Releases.GetRelease(c.Request.Context(), c.Param("id"), c.Param("releaseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	render(c, http.StatusOK, "release_delete.html", gin.H{
		"title":   "Delete release " + r.Name,
		"action":  projectURL(p.Id) + "/releases/" + r.Id + "/delete",
		"project": util.ToProjectView(p, nil, ctl.ServerAddress),
		"release": util.ToReleaseView(r, ctl.ServerAddress),
	})
}

// DeleteRelease handles POST /cms/projects/:id/releases/:releaseId/delete
func (ctl *CMSController) DeleteRelease(c *gin.Context) {
	id := c.Param("id")
	r, err := ctl.Releases.DeleteRelease(c.Request.Context(), id, c.Param("releaseId"))
	if err != nil {
		fail(c, err, projectURL(id))
		return
	}
	succeed(c, projectURL(id), fmt.Sprintf("Success! Deleted release %s.", r.Name))
}
