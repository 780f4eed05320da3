package services

import (
	"strings"

	"github.com/terraincognita07/labcheck/internal/models"
)

type SettingRepository interface {
	Find(key string) (models.Setting, bool, error)
	Upsert(key string, value string) error
}

// SettingsService is a flat string key-value store for small scalar
// settings such as the department title. The last write wins.
type SettingsService struct {
	settings SettingRepository
}

func NewSettingsService(settings SettingRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// Get returns the stored value for key, or fallback when none was stored.
func (service *SettingsService) Get(key string, fallback string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrSettingKeyRequired
	}
	setting, found, err := service.settings.Find(key)
	if err != nil {
		return "", fromStorage(err, nil)
	}
	if !found {
		return fallback, nil
	}
	return setting.Value, nil
}

func (service *SettingsService) Set(key string, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrSettingKeyRequired
	}
	return fromStorage(service.settings.Upsert(key, value), nil)
}

func (service *SettingsService) Title() (string, error) {
	return service.Get(models.SettingTitle, models.DefaultDepartmentTitle)
}

func (service *SettingsService) SetTitle(title string) error {
	return service.Set(models.SettingTitle, strings.TrimSpace(title))
}

// EnsureTitle stores title only when no title was saved before.
func (service *SettingsService) EnsureTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	_, found, err := service.settings.Find(models.SettingTitle)
	if err != nil {
		return fromStorage(err, nil)
	}
	if found {
		return nil
	}
	return service.SetTitle(title)
}
