package db

import (
	"time"

	"github.com/terraincognita07/labcheck/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	database *gorm.DB
}

func NewSettingRepository(database *gorm.DB) *SettingRepository {
	return &SettingRepository{database: database}
}

func (repo *SettingRepository) Find(key string) (models.Setting, bool, error) {
	settings := make([]models.Setting, 0, 1)
	if err := repo.database.Where("key = ?", key).Limit(1).Find(&settings).Error; err != nil {
		return models.Setting{}, false, err
	}
	if len(settings) == 0 {
		return models.Setting{}, false, nil
	}
	return settings[0], true, nil
}

// Upsert stores value under key; the last write wins.
func (repo *SettingRepository) Upsert(key string, value string) error {
	setting := models.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}
