package repositories

import (
	"context"

	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrDuplicateUser = errors.New("user email already exists")

type UserRepository interface {
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, errors.Wrap(err, "count users")
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *models.User) error {
	return errors.Wrapf(r.db.WithContext(ctx).Create(u).Error, "create user %s", u.Email)
}

func (r *userRepository) Update(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Save(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateUser
	}
	return errors.Wrapf(err, "update user %s", u.Email)
}
