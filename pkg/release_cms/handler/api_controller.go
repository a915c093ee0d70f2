package handler

import (
	"github.com/appdistro/release-cms/pkg/release_cms/helpers/util"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/appdistro/release-cms/pkg/release_cms/services"
	"github.com/gin-gonic/gin"
)

// ReleasesAPIController binds /api requests to the project and release
// services.
type ReleasesAPIController struct {
	Projects      *services.ProjectService
	Releases      *services.ReleaseService
	ServerAddress string
}

func NewReleasesAPIController(projects *services.ProjectService, releases *services.ReleaseService, serverAddress string) *ReleasesAPIController {
	return &ReleasesAPIController{Projects: projects, Releases: releases, ServerAddress: serverAddress}
}

// RetrieveProject handles GET /api/projects/:id
func (ctl *ReleasesAPIController) RetrieveProject(c *gin.Context, params *models.ProjectParams) (*models.ProjectView, error) {
	p, releases, err := ctl.Projects.ProjectWithReleases(c.Request.Context(), params.Id)
	if err != nil {
		return nil, err
	}
	view := util.ToProjectView(p, releases, ctl.ServerAddress)
	return &view, nil
}

// LatestReleases handles GET /api/projects/:id/releases/latest
func (ctl *ReleasesAPIController) LatestReleases(c *gin.Context, params *models.ProjectParams) (map[string]models.ReleaseView, error) {
	latest, err := ctl.Projects.LatestReleases(c.Request.Context(), params.Id)
	if err != nil {
		return nil, err
	}
	return util.ToLatestView(latest, ctl.ServerAddress), nil
}

// CreateProject handles POST /api/projects
func (ctl *ReleasesAPIController) CreateProject(c *gin.Context, body *models.CreateProjectRequest) (*models.ProjectView, error) {
	p, err := ctl.Projects.CreateProject(c.Request.Context(), body.Input(), body.File)
	if err != nil {
		return nil, err
	}
	view := util.ToProjectView(p, nil, ctl.ServerAddress)
	return &view, nil
}

// UpdateProject handles PATCH /api/projects/:id
func (ctl *ReleasesAPIController) UpdateProject(c *gin.Context, body *models.UpdateProjectRequest) (*models.ProjectView, error) {
	p, err := ctl.Projects.UpdateProject(c.Request.Context(), body.ProjectId, body.Input(), body.File)
	if err != nil {
		return nil, err
	}
	view := util.ToProjectView(p, nil, ctl.ServerAddress)
	return &view, nil
}

// CreateRelease handles POST /api/projects/:id/releases
func (ctl *ReleasesAPIController) CreateRelease(c *gin.Context, body *models.CreateReleaseRequest) (*models.ReleaseView, error) {
	r, err := ctl.Releases.CreateRelease(c.Request.Context(), body.ProjectId, body.Input(), body.File)
	if err != nil {
		return nil, err
	}
	view := util.ToReleaseView(r, ctl.ServerAddress)
	return &view, nil
}

// UpdateRelease handles PATCH /api/projects/:id/releases/:releaseId
func (ctl *ReleasesAPIController) UpdateRelease(c *gin.Context, body *models.UpdateReleaseRequest) (*models.ReleaseView, error) {
	r, err := ctl.Releases.UpdateRelease(c.Request.Context(), body.ProjectId, body.ReleaseId, body.Input(), body.File)
	if err != nil {
		return nil, err
	}
	view := util.ToReleaseView(r, ctl.ServerAddress)
	return &view, nil
}

// DeleteRelease handles DELETE /api/projects/:id/releases/:releaseId
func (ctl *ReleasesAPIController) DeleteRelease(c *gin.Context, params *models.ReleaseParams) error {
	_, err := ctl.Releases.DeleteRelease(c.Request.Context(), params.Id, params.ReleaseId)
	return err
}
