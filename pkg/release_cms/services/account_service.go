package services

import (
	"context"
	"log/slog"
	"strings"

	problem "github.com/appdistro/release-cms/pkg/release_cms/helpers/problem"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/appdistro/release-cms/pkg/release_cms/repositories"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 4

type AccountService struct {
	users repositories.UserRepository
}

func NewAccountService(users repositories.UserRepository) *AccountService {
	return &AccountService{users: users}
}

// Login checks an email/password pair.
func (s *AccountService) Login(ctx context.Context, in models.LoginInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, problem.NewBadRequest("Email and password are required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, problem.NewUnauthorized("Email " + email + " not found.")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, problem.NewUnauthorized("Invalid email or password.")
	}
	return u, nil
}

func (s *AccountService) FindUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *AccountService) UpdateProfile(ctx context.Context, u *models.User, in models.ProfileInput) error {
	email := normalizeEmail(in.Email)
	if email == "" {
		return problem.NewBadRequest("Please enter a valid email address.",
			problem.InvalidParam{Name: "email", Reason: "Please enter a valid email address."})
	}
	u.Email = email
	u.Name = strings.TrimSpace(in.Name)
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return problem.NewConflict("The email address you have entered is already associated with an account.")
		}
		return err
	}
	return nil
}

func (s *AccountService) UpdatePassword(ctx context.Context, u *models.User, in models.PasswordInput) error {
	var invalids []problem.InvalidParam
	if len(in.Password) < minPasswordLength {
		invalids = append(invalids, problem.InvalidParam{Name: "password", Reason: "Password must be at least 4 characters long"})
	}
	if in.Password != in.ConfirmPassword {
		invalids = append(invalids, problem.InvalidParam{Name: "confirmPassword", Reason: "Passwords do not match"})
	}
	if len(invalids) > 0 {
		return problem.NewBadRequest(invalids[0].Reason, invalids...)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.users.Update(ctx, u)
}

// EnsureAdmin creates the initial administrator when no user exists yet.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Debug("admin already exists")
		return nil
	}
	if normalizeEmail(email) == "" || password == "" {
		slog.Warn("no users and no ADMIN_EMAIL/ADMIN_PASSWORD set, CMS login is unavailable")
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u := &models.User{ID: uuid.NewString(), Email: normalizeEmail(email), PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}
	slog.Info("admin user created", "email", u.Email)
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
