package db

import (
	"github.com/terraincognita07/labcheck/internal/models"
	"gorm.io/gorm"
)

type AdminRepository struct {
	database *gorm.DB
}

func NewAdminRepository(database *gorm.DB) *AdminRepository {
	return &AdminRepository{database: database}
}

func (repo *AdminRepository) CountAdmins() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *AdminRepository) FindByID(adminID uint) (models.Admin, error) {
	var admin models.Admin
	if err := repo.database.First(&admin, adminID).Error; err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

func (repo *AdminRepository) FindByLogin(login string) (models.Admin, error) {
	var admin models.Admin
	if err := repo.database.Where("login = ?", login).First(&admin).Error; err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

func (repo *AdminRepository) Create(admin *models.Admin) error {
	return classify(repo.database.Create(admin).Error)
}

func (repo *AdminRepository) UpdatePassword(adminID uint, passwordHash string, mustChangePassword bool) error {
	return repo.database.Model(&models.Admin{}).Where("id = ?", adminID).Updates(map[string]any{
		"password_hash":        passwordHash,
		"must_change_password": mustChangePassword,
	}).Error
}
