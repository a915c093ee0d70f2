package release_cms

import (
	"github.com/appdistro/release-cms/pkg/config"
	"github.com/appdistro/release-cms/pkg/release_cms/handler"
	"github.com/appdistro/release-cms/pkg/release_cms/middleware"
	"github.com/appdistro/release-cms/pkg/release_cms/repositories"
	"github.com/appdistro/release-cms/pkg/release_cms/services"
	"github.com/appdistro/release-cms/pkg/release_cms/storage"
	"github.com/wI2L/fizz"
	"gorm.io/gorm"
)

// App holds the services of one running instance.
type App struct {
	Projects *services.ProjectService
	Releases *services.ReleaseService
	Keys     *services.APIKeyService
	Accounts *services.AccountService

	cfg config.Config
}

func NewApp(cfg config.Config, db *gorm.DB) *App {
	store := storage.New(cfg.StorageDirectory)
	releaseRepo := repositories.NewReleaseRepository(db)
	projects := services.NewProjectService(repositories.NewProjectRepository(db), releaseRepo, store)

	return &App{
		Projects: projects,
		Releases: services.NewReleaseService(projects, releaseRepo, store, cfg.ServerAddress),
		Keys:     services.NewAPIKeyService(repositories.NewAPIKeyRepository(db)),
		Accounts: services.NewAccountService(repositories.NewUserRepository(db)),
		cfg:      cfg,
	}
}

// Router builds the HTTP handler serving the API, the CMS and the public
// pages.
func (a *App) Router(version string) (*fizz.Fizz, error) {
	sessions := middleware.NewSessionManager(a.cfg.SessionSecret, a.cfg.Production())
	addr := a.cfg.ServerAddress

	return NewRouter(version, a.cfg.Production(), Controllers{
		API:      handler.NewReleasesAPIController(a.Projects, a.Releases, addr),
		Assets:   handler.NewAssetController(a.Projects, a.Releases, addr),
		CMS:      handler.NewCMSController(a.Projects, a.Releases, addr),
		Accounts: handler.NewAccountController(a.Accounts, a.Keys, a.Projects, sessions),
		Keys:     a.Keys,
		Users:    a.Accounts,
		Sessions: sessions,
	})
}
