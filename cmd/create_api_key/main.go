package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/appdistro/release-cms/pkg/config"
	"github.com/appdistro/release-cms/pkg/logging"
	release_cms "github.com/appdistro/release-cms/pkg/release_cms"
	"github.com/appdistro/release-cms/pkg/release_cms/database"
	"github.com/appdistro/release-cms/pkg/release_cms/models"
)

func main() {
	name := flag.String("name", "", "label shown in the CMS")
	project := flag.String("project", models.WildcardProject, `project id the key may write to, "*" for all projects`)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logging.Init(cfg.Production())

	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "err", err)
		os.Exit(1)
	}

	app := release_cms.NewApp(cfg, db)
	key, token, err := app.Keys.Create(context.Background(), models.APIKeyInput{Name: *name, ProjectId: *project})
	if err != nil {
		slog.Error("could not create api key", "err", err)
		os.Exit(1)
	}

	// the token is printed once and never stored
	fmt.Printf("%s (%s): %s\n", key.Name, key.ProjectId, token)
}
