package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/appdistro/release-cms/pkg/config"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database for driver and migrates the schema.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == config.DriverSQLite {
		// sqlite serialises writers; a single connection also keeps
		// :memory: databases shared across goroutines.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to configure database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// newLogger reports slow queries and failures. Lookups that find nothing
// are answered as 404s upstream and are not logged.
func newLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Project{}, &models.Release{}, &models.APIKey{}, &models.User{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
