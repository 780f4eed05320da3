package services

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrWeakPassword           = newKindError(ErrInvalidInput, "weak password")
	ErrPasswordChangeInvalid  = newKindError(ErrInvalidInput, "password change invalid input")
	ErrPasswordMismatch       = newKindError(ErrInvalidInput, "password mismatch")
	ErrInvalidCurrentPassword = newKindError(ErrInvalidInput, "invalid current password")
	ErrNewPasswordMustDiffer  = newKindError(ErrInvalidInput, "new password must differ")
	ErrPasswordHashingFailed  = newKindError(ErrStorageUnavailable, "password hashing failed")
)

const minimumPasswordLength = 8

func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < minimumPasswordLength {
		return ErrWeakPassword
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if hasUpper && hasLower && hasDigit {
		return nil
	}
	return ErrWeakPassword
}

// ValidatePasswordChange checks a change request against the stored hash.
func ValidatePasswordChange(passwordHash string, currentPassword string, newPassword string, confirmPassword string) error {
	currentPassword = strings.TrimSpace(currentPassword)
	newPassword = strings.TrimSpace(newPassword)
	confirmPassword = strings.TrimSpace(confirmPassword)

	if currentPassword == "" || newPassword == "" || confirmPassword == "" {
		return ErrPasswordChangeInvalid
	}
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCurrentPassword
	}
	if currentPassword == newPassword {
		return ErrNewPasswordMustDiffer
	}
	return ValidatePasswordStrength(newPassword)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", withDetail(ErrPasswordHashingFailed, err.Error())
	}
	return string(hash), nil
}
