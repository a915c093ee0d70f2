package services

import (
	"context"
	"log/slog"
	"mime/multipart"
	"os"
	"strings"

	problem "github.com/appdistro/release-cms/pkg/release_cms/helpers/problem"
	"github.com/appdistro/release-cms/pkg/release_cms/helpers/util"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/appdistro/release-cms/pkg/release_cms/repositories"
	"github.com/appdistro/release-cms/pkg/release_cms/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// reservedProjectIDs collide with top level routes.
var reservedProjectIDs = map[string]struct{}{
	"api":     {},
	"cms":     {},
	"healthz": {},
}

// ProjectService holds project and track/release resolution logic.
type ProjectService struct {
	projects repositories.ProjectRepository
	releases repositories.ReleaseRepository
	storage  *storage.Storage
}

func NewProjectService(projects repositories.ProjectRepository, releases repositories.ReleaseRepository, store *storage.Storage) *ProjectService {
	return &ProjectService{projects: projects, releases: releases, storage: store}
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.projects.List(ctx)
}

// GetProject returns the project or a 404 problem.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, problem.NewNotFound("Project Not found")
	}
	return p, nil
}

// PopulateReleases fetches the releases of every declared track, newest
// first.
func (s *ProjectService) PopulateReleases(ctx context.Context, p *models.Project) (models.TrackReleases, error) {
	tracks := []string(p.Tracks)
	lists := make([][]models.Release, len(tracks))

	g, gctx := errgroup.WithContext(ctx)
	for i, track := range tracks {
		i, track := i, track
		g.Go(func() error {
			releases, err := s.releases.ListByTrack(gctx, p.Id, track)
			if err != nil {
				return err
			}
			lists[i] = releases
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(models.TrackReleases, len(tracks))
	for i, track := range tracks {
		out[track] = lists[i]
	}
	return out, nil
}

// ProjectWithReleases loads a project and its populated tracks.
func (s *ProjectService) ProjectWithReleases(ctx context.Context, id string) (*models.Project, models.TrackReleases, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	releases, err := s.PopulateReleases(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	return p, releases, nil
}

// LatestReleases maps every declared track to its newest release. Tracks
// without releases map to nil.
func (s *ProjectService) LatestReleases(ctx context.Context, id string) (map[string]*models.Release, error) {
	p, releases, err := s.ProjectWithReleases(ctx, id)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]*models.Release, len(p.Tracks))
	for _, track := range p.Tracks {
		latest[track] = releases.Latest(track)
	}
	return latest, nil
}

// CreateProject validates input and stores a new project. An existing id
// yields a 409 problem and leaves the stored project untouched.
func (s *ProjectService) CreateProject(ctx context.Context, in models.ProjectInput, icon *multipart.FileHeader) (*models.Project, error) {
	in.Id = strings.TrimSpace(in.Id)
	if invalids := validateProject(in, true); len(invalids) > 0 {
		return nil, problem.NewBadRequest(invalids[0].Reason, invalids...)
	}

	existing, err := s.projects.FindByID(ctx, in.Id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, problem.NewConflict("Project Already exists")
	}

	p := &models.Project{
		InternalID:  uuid.NewString(),
		Id:          in.Id,
		Name:        strings.TrimSpace(in.Name),
		IosBundleId: nonEmpty(in.IosBundleId),
		Tracks:      models.NormalizeTracks(in.Tracks),
	}
	if in.Description != nil {
		p.Description = *in.Description
	}

	if err := s.projects.Create(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrDuplicateProject) {
			return nil, problem.NewConflict("Project Already exists")
		}
		return nil, err
	}
	slog.Info("project created", "project", p.Id)

	// the icon directory belongs to whoever won the insert
	if icon != nil {
		if err := s.attachImage(ctx, p, icon); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// UpdateProject applies in to the project id. Fields left nil keep their
// stored value; a new icon replaces the image.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, in models.ProjectInput, icon *multipart.FileHeader) (*models.Project, error) {
	in.Id = id
	if invalids := validateProject(in, false); len(invalids) > 0 {
		return nil, problem.NewBadRequest(invalids[0].Reason, invalids...)
	}

	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(in.Name)
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.IosBundleId != nil {
		p.IosBundleId = nonEmpty(in.IosBundleId)
	}
	if in.Tracks != nil {
		p.Tracks = models.NormalizeTracks(in.Tracks)
	}
	if icon != nil {
		if err := s.saveImage(p, icon); err != nil {
			return nil, err
		}
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	slog.Info("project updated", "project", p.Id)
	return p, nil
}

// ImageFile returns the path of the project's icon.
func (s *ProjectService) ImageFile(ctx context.Context, id string) (string, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return "", err
	}
	if p.Image == nil {
		return "", problem.NewNotFound("Project has no image")
	}
	path, err := s.storage.ImagePath(p.Id)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", problem.NewNotFound("Image Not found")
		}
		return "", errors.Wrap(err, "stat project image")
	}
	return path, nil
}

func (s *ProjectService) saveImage(p *models.Project, icon *multipart.FileHeader) error {
	if _, err := s.storage.SaveImage(p.Id, icon); err != nil {
		return err
	}
	image := util.ImagePath(p.Id)
	p.Image = &image
	return nil
}

func (s *ProjectService) attachImage(ctx context.Context, p *models.Project, icon *multipart.FileHeader) error {
	if err := s.saveImage(p, icon); err != nil {
		return err
	}
	return s.projects.Update(ctx, p)
}

func validateProject(in models.ProjectInput, create bool) []problem.InvalidParam {
	var invalids []problem.InvalidParam
	if create {
		switch {
		case in.Id == "":
			invalids = append(invalids, problem.InvalidParam{Name: "id", Reason: "ID cannot be blank"})
		case !storage.ValidProjectID(in.Id):
			invalids = append(invalids, problem.InvalidParam{Name: "id", Reason: "ID cannot contain path separators"})
		default:
			if _, reserved := reservedProjectIDs[strings.ToLower(in.Id)]; reserved {
				invalids = append(invalids, problem.InvalidParam{Name: "id", Reason: "ID is reserved"})
			}
		}
	}
	if strings.TrimSpace(in.Name) == "" {
		invalids = append(invalids, problem.InvalidParam{Name: "name", Reason: "Name cannot be blank"})
	}
	return invalids
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
