package config

import (
	"errors"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port             string
	Environment      string
	DBDriver         string
	DatabaseDSN      string
	StorageDirectory string
	ServerAddress    string
	SessionSecret    string
	AdminEmail       string
	AdminPassword    string
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	port := getenv("PORT", "3000")
	cfg := Config{
		Port:             port,
		Environment:      getenv("APP_ENV", "development"),
		DBDriver:         strings.ToLower(getenv("DB_DRIVER", DriverPostgres)),
		StorageDirectory: getenv("STORAGE_DIRECTORY", "storage"),
		ServerAddress:    strings.TrimRight(getenv("SERVER_ADDRESS", "http://localhost:"+port), "/"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		cfg.DatabaseDSN = postgresDSN()
	case DriverSQLite:
		cfg.DatabaseDSN = getenv("DATABASE_URL", "release-cms.db")
	default:
		return Config{}, errors.New("DB_DRIVER must be postgres or sqlite")
	}

	if cfg.SessionSecret == "" {
		if cfg.Production() {
			return Config{}, errors.New("SESSION_SECRET is required in production")
		}
		cfg.SessionSecret = "dev-session-secret"
	}
	return cfg, nil
}

func (c Config) Production() bool {
	return c.Environment == "production"
}

// postgresDSN prefers DATABASE_URL and otherwise assembles the URL from
// the DB_* variables.
func postgresDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   getenv("DB_HOSTNAME", "localhost:5432"),
		Path:   getenv("DB_DBNAME", "release_cms"),
	}
	u.User = url.UserPassword(os.Getenv("DB_USERNAME"), os.Getenv("DB_PASSWORD"))
	q := u.Query()
	if schema := strings.TrimSpace(os.Getenv("DB_SCHEMA")); schema != "" {
		q.Set("search_path", schema)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
