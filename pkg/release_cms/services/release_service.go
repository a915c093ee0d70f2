package services

import (
	"context"
	"log/slog"
	"mime/multipart"
	"os"
	"strings"

	problem "github.com/appdistro/release-cms/pkg/release_cms/helpers/problem"
	"github.com/appdistro/release-cms/pkg/release_cms/helpers/util"
	"github.com/appdistro/release-cms/pkg/release_cms/manifest"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/appdistro/release-cms/pkg/release_cms/repositories"
	"github.com/appdistro/release-cms/pkg/release_cms/storage"
	"github.com/pkg/errors"
	"github.com/teris-io/shortid"
)

type ReleaseService struct {
	projects      *ProjectService
	releases      repositories.ReleaseRepository
	storage       *storage.Storage
	serverAddress string
}

func NewReleaseService(projects *ProjectService, releases repositories.ReleaseRepository, store *storage.Storage, serverAddress string) *ReleaseService {
	return &ReleaseService{
		projects:      projects,
		releases:      releases,
		storage:       store,
		serverAddress: serverAddress,
	}
}

// GetRelease returns the release releaseID of project projectID.
func (s *ReleaseService) GetRelease(ctx context.Context, projectID, releaseID string) (*models.Project, *models.Release, error) {
	p, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	r, err := s.releases.FindByID(ctx, releaseID)
	if err != nil {
		return nil, nil, err
	}
	if r == nil || r.ProjectId != p.Id {
		return nil, nil, problem.NewNotFound("Release Not found")
	}
	return p, r, nil
}

// CreateRelease stores the artifact (if any) and records a new release on
// one of the project's declared tracks.
func (s *ReleaseService) CreateRelease(ctx context.Context, projectID string, in models.ReleaseInput, file *multipart.FileHeader) (*models.Release, error) {
	p, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := validateRelease(p, in); err != nil {
		return nil, err
	}

	r := &models.Release{
		Id:        shortid.MustGenerate(),
		ProjectId: p.Id,
		Name:      strings.TrimSpace(in.Name),
		Note:      in.Note,
		Track:     strings.TrimSpace(in.Track),
	}
	if file != nil {
		stored, err := s.storage.SaveRelease(p.Id, file)
		if err != nil {
			return nil, err
		}
		attachFile(r, stored)
	}

	if err := s.releases.Create(ctx, r); err != nil {
		s.discard(r.Path)
		return nil, err
	}
	slog.Info("release created", "project", p.Id, "release", r.Id, "track", r.Track)
	return r, nil
}

// UpdateRelease edits a release. A new artifact replaces the old one on
// disk.
func (s *ReleaseService) UpdateRelease(ctx context.Context, projectID, releaseID string, in models.ReleaseInput, file *multipart.FileHeader) (*models.Release, error) {
	p, r, err := s.GetRelease(ctx, projectID, releaseID)
	if err != nil {
		return nil, err
	}
	if err := validateRelease(p, in); err != nil {
		return nil, err
	}

	r.Name = strings.TrimSpace(in.Name)
	r.Note = in.Note
	r.Track = strings.TrimSpace(in.Track)

	previous := ""
	if file != nil {
		stored, err := s.storage.SaveRelease(p.Id, file)
		if err != nil {
			return nil, err
		}
		previous = r.Path
		attachFile(r, stored)
	}

	if err := s.releases.Update(ctx, r); err != nil {
		if previous != "" {
			s.discard(r.Path)
		}
		return nil, err
	}
	if previous != "" && previous != r.Path {
		s.discard(previous)
	}
	slog.Info("release updated", "project", p.Id, "release", r.Id)
	return r, nil
}

// DeleteRelease removes the release record, then its artifact.
func (s *ReleaseService) DeleteRelease(ctx context.Context, projectID, releaseID string) (*models.Release, error) {
	_, r, err := s.GetRelease(ctx, projectID, releaseID)
	if err != nil {
		return nil, err
	}
	if err := s.releases.Delete(ctx, r.Id); err != nil {
		return nil, err
	}
	s.discard(r.Path)
	slog.Info("release deleted", "project", projectID, "release", r.Id)
	return r, nil
}

// OpenFile opens the artifact of a release for streaming. The caller closes
// the file.
func (s *ReleaseService) OpenFile(ctx context.Context, projectID, releaseID string) (*models.Release, *os.File, error) {
	_, r, err := s.GetRelease(ctx, projectID, releaseID)
	if err != nil {
		return nil, nil, err
	}
	if !r.HasFile() {
		return nil, nil, problem.NewNotFound("Release has no file")
	}
	f, err := s.storage.Open(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, problem.NewNotFound("File Not found")
		}
		return nil, nil, errors.Wrap(err, "open release file")
	}
	return r, f, nil
}

// Manifest renders the over-the-air install manifest for an iOS release.
func (s *ReleaseService) Manifest(ctx context.Context, projectID, releaseID string) ([]byte, error) {
	p, r, err := s.GetRelease(ctx, projectID, releaseID)
	if err != nil {
		return nil, err
	}
	if !r.IsIOS || !r.HasFile() {
		return nil, problem.NewNotFound("Release is not an iOS build")
	}

	params := manifest.Params{
		DownloadURL:   util.DownloadLink(s.serverAddress, p.Id, r.Id),
		BundleVersion: r.Name,
		Title:         p.Name,
	}
	if p.IosBundleId != nil {
		params.BundleIdentifier = *p.IosBundleId
	}
	if p.Image != nil {
		params.ImageURL = s.serverAddress + util.ImagePath(p.Id)
	}
	return manifest.Encode(manifest.Build(params))
}

func validateRelease(p *models.Project, in models.ReleaseInput) error {
	var invalids []problem.InvalidParam
	if strings.TrimSpace(in.Name) == "" {
		invalids = append(invalids, problem.InvalidParam{Name: "name", Reason: "Name is required"})
	}
	track := strings.TrimSpace(in.Track)
	switch {
	case track == "":
		invalids = append(invalids, problem.InvalidParam{Name: "track", Reason: "Track is required"})
	case !p.HasTrack(track):
		invalids = append(invalids, problem.InvalidParam{Name: "track", Reason: "Track is not declared on project " + p.Id})
	}
	if len(invalids) > 0 {
		return problem.NewBadRequest(invalids[0].Reason, invalids...)
	}
	return nil
}

func attachFile(r *models.Release, stored *storage.StoredFile) {
	r.FileName = stored.OriginalName
	r.Mimetype = stored.Mimetype
	r.Path = stored.Path
	r.IsIOS = models.IsIOSFileName(stored.OriginalName)
}

func (s *ReleaseService) discard(path string) {
	if err := s.storage.Remove(path); err != nil {
		slog.Warn("could not remove release file", "path", path, "err", err)
	}
}
