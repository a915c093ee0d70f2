package repositories

import (
	"context"

	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrDuplicateProject is returned when a project id is already taken.
var ErrDuplicateProject = errors.New("project id already exists")

type ProjectRepository interface {
	List(ctx context.Context) ([]models.Project, error)
	FindByID(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, p *models.Project) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&projects).Error; err != nil {
		return nil, errors.Wrap(err, "list projects")
	}
	return projects, nil
}

// FindByID returns nil without error when no project has id.
func (r *projectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find project %s", id)
	}
	return &p, nil
}

func (r *projectRepository) Create(ctx context.Context, p *models.Project) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateProject
	}
	return errors.Wrapf(err, "create project %s", p.Id)
}

func (r *projectRepository) Update(ctx context.Context, p *models.Project) error {
	return errors.Wrapf(r.db.WithContext(ctx).Save(p).Error, "update project %s", p.Id)
}
