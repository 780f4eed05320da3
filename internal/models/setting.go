package models

import "time"

const (
	SettingTitle           = "title"
	DefaultDepartmentTitle = "Подразделение"
)

type Setting struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

type Admin struct {
	ID                 uint      `gorm:"primaryKey"`
	Login              string    `gorm:"uniqueIndex;not null"`
	PasswordHash       string    `gorm:"not null"`
	MustChangePassword bool      `gorm:"not null;default:false"`
	CreatedAt          time.Time `gorm:"not null"`
}
