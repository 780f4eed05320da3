package cli

import (
	"fmt"

	"github.com/terraincognita07/labcheck/internal/config"
	"github.com/terraincognita07/labcheck/internal/db"
	"github.com/terraincognita07/labcheck/internal/services"
	"gorm.io/gorm"
)

// store is the service set a command works with.
type store struct {
	database     *gorm.DB
	repositories *db.Repositories
	clock        services.Clock
	catalog      *services.CatalogService
	reports      *services.ReportService
	settings     *services.SettingsService
	legacy       *services.LegacyService
	auth         *services.AuthService
}

func openStore(cfg config.Config) (*store, error) {
	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	return newStore(database, services.NewClock(cfg.Location())), nil
}

func newStore(database *gorm.DB, clock services.Clock) *store {
	repositories := db.NewRepositories(database)
	catalog := services.NewCatalogService(repositories.Doctors, repositories.Catalog, clock)
	reports := services.NewReportService(repositories.Reports, clock)
	return &store{
		database:     database,
		repositories: repositories,
		clock:        clock,
		catalog:      catalog,
		reports:      reports,
		settings:     services.NewSettingsService(repositories.Settings),
		legacy:       services.NewLegacyService(catalog, reports),
		auth:         services.NewAuthService(repositories.Admins),
	}
}

func (s *store) Close() error {
	return db.Close(s.database)
}
