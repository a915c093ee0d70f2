package config_test

import (
	"testing"

	"github.com/appdistro/release-cms/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SERVER_ADDRESS", "")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.ServerAddress)
	assert.Equal(t, "release-cms.db", cfg.DatabaseDSN)
	assert.False(t, cfg.Production())
	assert.NotEmpty(t, cfg.SessionSecret)
}

func TestFromEnv_PostgresFromParts(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOSTNAME", "db:5432")
	t.Setenv("DB_USERNAME", "cms")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_DBNAME", "releases")
	t.Setenv("DB_SCHEMA", "public")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://cms:secret@db:5432/releases?search_path=public", cfg.DatabaseDSN)
}

func TestFromEnv_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := config.FromEnv()
	assert.Error(t, err)
}

func TestFromEnv_TrimsServerAddress(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SERVER_ADDRESS", "https://releases.example.com/")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://releases.example.com", cfg.ServerAddress)
}

func TestFromEnv_UnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mongo")
	_, err := config.FromEnv()
	assert.Error(t, err)
}
