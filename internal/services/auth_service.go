package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/labcheck/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAuthCredentialsInvalid = newKindError(ErrInvalidInput, "auth credentials invalid")
	ErrAdminLoginRequired     = newKindError(ErrInvalidInput, "admin login is required")
)

type AdminRepository interface {
	CountAdmins() (int64, error)
	FindByID(adminID uint) (models.Admin, error)
	FindByLogin(login string) (models.Admin, error)
	Create(admin *models.Admin) error
	UpdatePassword(adminID uint, passwordHash string, mustChangePassword bool) error
}

// AuthService guards catalog edits behind administrator accounts.
type AuthService struct {
	admins AdminRepository
}

func NewAuthService(admins AdminRepository) *AuthService {
	return &AuthService{admins: admins}
}

func NormalizeLogin(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// BootstrapAdmin creates the first administrator. It does nothing when an
// administrator already exists.
func (service *AuthService) BootstrapAdmin(login string, password string, mustChangePassword bool) (bool, error) {
	login = NormalizeLogin(login)
	if login == "" {
		return false, ErrAdminLoginRequired
	}
	count, err := service.admins.CountAdmins()
	if err != nil {
		return false, fromStorage(err, nil)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	admin := models.Admin{Login: login, PasswordHash: hash, MustChangePassword: mustChangePassword}
	if err := service.admins.Create(&admin); err != nil {
		return false, fromStorage(err, nil)
	}
	return true, nil
}

func (service *AuthService) Authenticate(login string, password string) (models.Admin, error) {
	login = NormalizeLogin(login)
	password = strings.TrimSpace(password)
	if login == "" || password == "" {
		return models.Admin{}, ErrAuthCredentialsInvalid
	}

	admin, err := service.admins.FindByLogin(login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Admin{}, ErrAuthCredentialsInvalid
	}
	if err != nil {
		return models.Admin{}, fromStorage(err, nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return models.Admin{}, ErrAuthCredentialsInvalid
	}
	return admin, nil
}

func (service *AuthService) FindByID(adminID uint) (models.Admin, error) {
	admin, err := service.admins.FindByID(adminID)
	if err != nil {
		return models.Admin{}, fromStorage(err, ErrAdminNotFound)
	}
	return admin, nil
}

func (service *AuthService) ChangePassword(adminID uint, currentPassword string, newPassword string, confirmPassword string) error {
	admin, err := service.FindByID(adminID)
	if err != nil {
		return err
	}
	if err := ValidatePasswordChange(admin.PasswordHash, currentPassword, newPassword, confirmPassword); err != nil {
		return err
	}
	hash, err := hashPassword(strings.TrimSpace(newPassword))
	if err != nil {
		return err
	}
	return fromStorage(service.admins.UpdatePassword(admin.ID, hash, false), ErrAdminNotFound)
}

// SetPassword replaces the password of login without checking the old one.
// It is meant for local maintenance commands.
func (service *AuthService) SetPassword(login string, password string, mustChangePassword bool) (models.Admin, error) {
	login = NormalizeLogin(login)
	if login == "" {
		return models.Admin{}, ErrAdminLoginRequired
	}
	admin, err := service.admins.FindByLogin(login)
	if err != nil {
		return models.Admin{}, fromStorage(err, ErrAdminNotFound)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return models.Admin{}, err
	}
	if err := service.admins.UpdatePassword(admin.ID, hash, mustChangePassword); err != nil {
		return models.Admin{}, fromStorage(err, ErrAdminNotFound)
	}
	admin.PasswordHash = hash
	admin.MustChangePassword = mustChangePassword
	return admin, nil
}
