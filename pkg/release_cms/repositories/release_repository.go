package repositories

import (
	"context"

	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ReleaseRepository interface {
	ListByTrack(ctx context.Context, projectID, track string) ([]models.Release, error)
	FindByID(ctx context.Context, id string) (*models.Release, error)
	Create(ctx context.Context, r *models.Release) error
	Update(ctx context.Context, r *models.Release) error
	Delete(ctx context.Context, id string) error
}

type releaseRepository struct {
	db *gorm.DB
}

func NewReleaseRepository(db *gorm.DB) ReleaseRepository {
	return &releaseRepository{db: db}
}

// ListByTrack returns the releases of one track, newest first.
func (r *releaseRepository) ListByTrack(ctx context.Context, projectID, track string) ([]models.Release, error) {
	var releases []models.Release
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND track = ?", projectID, track).
		Order("created_at DESC").
		Find(&releases).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list releases %s/%s", projectID, track)
	}
	return releases, nil
}

// FindByID returns nil without error when the release does not exist.
func (r *releaseRepository) FindByID(ctx context.Context, id string) (*models.Release, error) {
	var rel models.Release
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find release %s", id)
	}
	return &rel, nil
}

func (r *releaseRepository) Create(ctx context.Context, rel *models.Release) error {
	return errors.Wrapf(r.db.WithContext(ctx).Create(rel).Error, "create release %s", rel.Name)
}

func (r *releaseRepository) Update(ctx context.Context, rel *models.Release) error {
	return errors.Wrapf(r.db.WithContext(ctx).Save(rel).Error, "update release %s", rel.Id)
}

func (r *releaseRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Release{}).Error, "delete release %s", id)
}
