package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/appdistro/release-cms/pkg/config"
	"github.com/appdistro/release-cms/pkg/logging"
	release_cms "github.com/appdistro/release-cms/pkg/release_cms"
	"github.com/appdistro/release-cms/pkg/release_cms/database"
	"github.com/gin-gonic/gin"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logging.Init(cfg.Production())
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}

	app := release_cms.NewApp(cfg, db)
	if err := app.Accounts.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("could not bootstrap admin user", "err", err)
		os.Exit(1)
	}

	router, err := app.Router(version)
	if err != nil {
		slog.Error("could not build router", "err", err)
		os.Exit(1)
	}

	slog.Info("server is running", "port", cfg.Port, "address", cfg.ServerAddress, "env", cfg.Environment)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
