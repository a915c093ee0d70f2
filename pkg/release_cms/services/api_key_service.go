package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"log/slog"
	"strings"

	problem "github.com/appdistro/release-cms/pkg/release_cms/helpers/problem"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"github.com/appdistro/release-cms/pkg/release_cms/repositories"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const tokenBytes = 32

type APIKeyService struct {
	keys repositories.APIKeyRepository
}

func NewAPIKeyService(keys repositories.APIKeyRepository) *APIKeyService {
	return &APIKeyService{keys: keys}
}

// HashToken returns the stored fingerprint of a plaintext token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Authenticate resolves the key presented in an Authorization header.
func (s *APIKeyService) Authenticate(ctx context.Context, header string) (*models.APIKey, error) {
	token := strings.TrimSpace(header)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return nil, problem.NewUnauthorized("Unauthorized")
	}

	key, err := s.keys.FindByHash(ctx, HashToken(token))
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, problem.NewUnauthorized("Unauthorized")
	}
	return key, nil
}

func (s *APIKeyService) List(ctx context.Context) ([]models.APIKey, error) {
	return s.keys.List(ctx)
}

// Create issues a new key and returns it together with the plaintext token.
// The token is not stored and cannot be recovered later.
func (s *APIKeyService) Create(ctx context.Context, in models.APIKeyInput) (*models.APIKey, string, error) {
	var invalids []problem.InvalidParam
	if strings.TrimSpace(in.Name) == "" {
		invalids = append(invalids, problem.InvalidParam{Name: "name", Reason: "Name cannot be blank"})
	}
	if strings.TrimSpace(in.ProjectId) == "" {
		invalids = append(invalids, problem.InvalidParam{Name: "projectId", Reason: "Project ID cannot be blank"})
	}
	if len(invalids) > 0 {
		return nil, "", problem.NewBadRequest(invalids[0].Reason, invalids...)
	}

	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", errors.Wrap(err, "generate api key")
	}
	token := base64.StdEncoding.EncodeToString(raw)

	key := &models.APIKey{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		ProjectId: strings.TrimSpace(in.ProjectId),
		KeyHash:   HashToken(token),
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return nil, "", err
	}
	slog.Info("api key created", "name", key.Name, "project", key.ProjectId)
	return key, token, nil
}

// Revoke deletes a key. Requests using it are rejected afterwards.
func (s *APIKeyService) Revoke(ctx context.Context, id string) error {
	if err := s.keys.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("api key revoked", "id", id)
	return nil
}
