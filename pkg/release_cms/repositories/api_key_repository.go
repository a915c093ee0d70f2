package repositories

import (
	"context"

	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type APIKeyRepository interface {
	List(ctx context.Context) ([]models.APIKey, error)
	FindByHash(ctx context.Context, hash string) (*models.APIKey, error)
	Create(ctx context.Context, k *models.APIKey) error
	Delete(ctx context.Context, id string) error
}

type apiKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) List(ctx context.Context) ([]models.APIKey, error) {
	var keys []models.APIKey
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&keys).Error; err != nil {
		return nil, errors.Wrap(err, "list api keys")
	}
	return keys, nil
}

func (r *apiKeyRepository) FindByHash(ctx context.Context, hash string) (*models.APIKey, error) {
	var k models.APIKey
	err := r.db.WithContext(ctx).Where("key_hash = ?", hash).First(&k).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find api key")
	}
	return &k, nil
}

func (r *apiKeyRepository) Create(ctx context.Context, k *models.APIKey) error {
	return errors.Wrapf(r.db.WithContext(ctx).Create(k).Error, "create api key %s", k.Name)
}

func (r *apiKeyRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrapf(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.APIKey{}).Error, "delete api key %s", id)
}
