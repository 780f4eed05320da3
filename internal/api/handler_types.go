package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/labcheck/internal/i18n"
	"github.com/terraincognita07/labcheck/internal/models"
	"github.com/terraincognita07/labcheck/internal/services"
)

type Handler struct {
	catalog      *services.CatalogService
	reports      *services.ReportService
	settings     *services.SettingsService
	legacy       *services.LegacyService
	auth         *services.AuthService
	i18n         *i18n.Manager
	secretKey    []byte
	cookieSecure bool
	loginLimiter *attemptLimiter
}

const (
	authCookieName     = "labcheck_auth"
	authTokenTTL       = 12 * time.Hour
	contextAdminKey    = "admin"
	contextLanguageKey = "language"
	languageCookieName = "labcheck_lang"

	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute
)

type adminClaims struct {
	AdminID       uint   `json:"aid"`
	PasswordState string `json:"pst"`
	jwt.RegisteredClaims
}

type credentialsInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type doctorInput struct {
	Name      string `json:"name"`
	ValidFrom string `json:"valid_from"`
	Effective string `json:"effective"`
}

type blockInput struct {
	Label        string `json:"label"`
	DisplayOrder int    `json:"display_order"`
	ValidFrom    string `json:"valid_from"`
	Effective    string `json:"effective"`
}

type taskInput struct {
	Number    int    `json:"number"`
	Label     string `json:"label"`
	ValidFrom string `json:"valid_from"`
	Effective string `json:"effective"`
}

type closeInput struct {
	ValidTo string `json:"valid_to"`
}

type outcomesInput struct {
	Tasks []models.TaskOutcome `json:"tasks"`
}

type checkAllInput struct {
	Checked *bool `json:"checked"`
}

type settingInput struct {
	Value string `json:"value"`
}

type titleInput struct {
	Title string `json:"title"`
}

type adminView struct {
	ID                 uint   `json:"id"`
	Login              string `json:"login"`
	MustChangePassword bool   `json:"must_change_password"`
}
