package util

import (
	"fmt"
	"net/url"

	"github.com/appdistro/release-cms/pkg/release_cms/models"
)

// ToProjectView strips storage fields from p. Releases are included only
// when populated.
func ToProjectView(p *models.Project, releases models.TrackReleases, serverAddress string) models.ProjectView {
	tracks := []string(p.Tracks)
	if tracks == nil {
		tracks = []string{}
	}
	view := models.ProjectView{
		Id:          p.Id,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		IosBundleId: p.IosBundleId,
		Tracks:      tracks,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if releases != nil {
		view.Releases = make(map[string][]models.ReleaseView, len(releases))
		for track, list := range releases {
			views := make([]models.ReleaseView, len(list))
			for i := range list {
				views[i] = ToReleaseView(&list[i], serverAddress)
			}
			view.Releases[track] = views
		}
	}
	return view
}

func ToReleaseView(r *models.Release, serverAddress string) models.ReleaseView {
	view := models.ReleaseView{
		Id:        r.Id,
		ProjectId: r.ProjectId,
		Name:      r.Name,
		Note:      r.Note,
		Track:     r.Track,
		FileName:  r.FileName,
		Mimetype:  r.Mimetype,
		IsIOS:     r.IsIOS,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.HasFile() {
		view.DownloadLink = DownloadLink(serverAddress, r.ProjectId, r.Id)
		if r.IsIOS {
			view.ManifestLink = ManifestLink(serverAddress, r.ProjectId, r.Id)
			view.InstallLink = "itms-services://?action=download-manifest&url=" + url.QueryEscape(view.ManifestLink)
		}
	}
	return view
}

// ToLatestView keeps only the tracks that have a release.
func ToLatestView(latest map[string]*models.Release, serverAddress string) map[string]models.ReleaseView {
	out := make(map[string]models.ReleaseView, len(latest))
	for track, r := range latest {
		if r == nil {
			continue
		}
		out[track] = ToReleaseView(r, serverAddress)
	}
	return out
}

func ToAPIKeyView(k *models.APIKey) models.APIKeyView {
	return models.APIKeyView{
		ID:        k.ID,
		Name:      k.Name,
		ProjectId: k.ProjectId,
		CreatedAt: k.CreatedAt,
	}
}

func DownloadLink(serverAddress, projectID, releaseID string) string {
	return fmt.Sprintf("%s/%s/download/%s", serverAddress, url.PathEscape(projectID), url.PathEscape(releaseID))
}

func ManifestLink(serverAddress, projectID, releaseID string) string {
	return fmt.Sprintf("%s/%s/manifest/%s", serverAddress, url.PathEscape(projectID), url.PathEscape(releaseID))
}

// ImagePath is the public path stored on a project that has an icon.
func ImagePath(projectID string) string {
	return fmt.Sprintf("/%s/image", url.PathEscape(projectID))
}
