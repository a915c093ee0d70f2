package handler

import (
	"mime"
	"net/http"

	"github.com/appdistro/release-cms/pkg/release_cms/helpers/util"
	"github.com/appdistro/release-cms/pkg/release_cms/services"
	"github.com/appdistro/release-cms/pkg/release_cms/storage"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const plistContentType = "application/x-plist"

// AssetController serves artifacts, icons, manifests and the public project
// page. It is mounted both under /api and at the site root.
type AssetController struct {
	Projects      *services.ProjectService
	Releases      *services.ReleaseService
	ServerAddress string
}

func NewAssetController(projects *services.ProjectService, releases *services.ReleaseService, serverAddress string) *AssetController {
	return &AssetController{Projects: projects, Releases: releases, ServerAddress: serverAddress}
}

// Download streams a release artifact.
func (ctl *AssetController) Download(c *gin.Context) {
	r, f, err := ctl.Releases.OpenFile(c.Request.Context(), c.Param("id"), c.Param("releaseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		_ = c.Error(errors.Wrap(err, "stat release file"))
		return
	}
	contentType := r.Mimetype
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": r.FileName})
	if disposition == "" {
		disposition = "attachment"
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType, f, map[string]string{
		"Content-Disposition": disposition,
	})
}

// Manifest renders the iOS install manifest of a release.
func (ctl *AssetController) Manifest(c *gin.Context) {
	data, err := ctl.Releases.Manifest(c.Request.Context(), c.Param("id"), c.Param("releaseId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Data(http.StatusOK, plistContentType, data)
}

// Image serves a project's icon.
func (ctl *AssetController) Image(c *gin.Context) {
	path, err := ctl.Projects.ImageFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Type", storage.DetectMimetype(path))
	c.File(path)
}

// ProjectPage renders the public download page of a project, or its JSON
// view when the client asks for JSON.
func (ctl *AssetController) ProjectPage(c *gin.Context) {
	p, releases, err := ctl.Projects.ProjectWithReleases(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	view := util.ToProjectView(p, releases, ctl.ServerAddress)
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, view)
		return
	}
	render(c, http.StatusOK, "public_project.html", gin.H{
		"title":   p.Name,
		"project": view,
	})
}
