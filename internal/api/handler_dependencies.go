package api

import (
	"errors"

	"github.com/terraincognita07/labcheck/internal/db"
	"github.com/terraincognita07/labcheck/internal/i18n"
	"github.com/terraincognita07/labcheck/internal/services"
)

func NewHandler(repositories *db.Repositories, clock services.Clock, secret string, i18nManager *i18n.Manager, cookieSecure bool) (*Handler, error) {
	if repositories == nil {
		return nil, errors.New("repositories are required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if secret == "" {
		return nil, errors.New("secret key is required")
	}

	catalog := services.NewCatalogService(repositories.Doctors, repositories.Catalog, clock)
	reports := services.NewReportService(repositories.Reports, clock)
	return &Handler{
		catalog:      catalog,
		reports:      reports,
		settings:     services.NewSettingsService(repositories.Settings),
		legacy:       services.NewLegacyService(catalog, reports),
		auth:         services.NewAuthService(repositories.Admins),
		i18n:         i18nManager,
		secretKey:    []byte(secret),
		cookieSecure: cookieSecure,
		loginLimiter: newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
	}, nil
}
