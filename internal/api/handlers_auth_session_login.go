package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/labcheck/internal/services"
)

func (handler *Handler) Login(c *fiber.Ctx) error {
	var credentials credentialsInput
	if err := parseBody(c, &credentials); err != nil {
		return handler.respondError(c, err)
	}

	now := time.Now()
	limiterKey := loginLimiterKey(c, services.NormalizeLogin(credentials.Login))
	if handler.loginLimiter.blocked(limiterKey, now) {
		return handler.respondErrorCode(c, fiber.StatusTooManyRequests, kindTooManyRequests, "too_many_attempts")
	}

	admin, err := handler.auth.Authenticate(credentials.Login, credentials.Password)
	if errors.Is(err, services.ErrAuthCredentialsInvalid) {
		handler.loginLimiter.recordFailure(limiterKey, now)
		return handler.respondErrorCode(c, fiber.StatusUnauthorized, kindUnauthorized, "invalid_credentials")
	}
	if err != nil {
		return handler.respondError(c, err)
	}
	handler.loginLimiter.reset(limiterKey)

	token, expiresAt, err := handler.buildToken(admin, now)
	if err != nil {
		return handler.ErrorHandler(c, err)
	}
	handler.setAuthCookie(c, token, expiresAt)
	return respondSuccess(c, fiber.StatusOK, fiber.Map{
		"token":                token,
		"expires_at":           expiresAt.UTC().Format(time.RFC3339),
		"must_change_password": admin.MustChangePassword,
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return respondSuccess(c, fiber.StatusOK, nil)
}

func (handler *Handler) CurrentAdmin(c *fiber.Ctx) error {
	admin, _ := currentAdmin(c)
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"admin": adminView{
		ID:                 admin.ID,
		Login:              admin.Login,
		MustChangePassword: admin.MustChangePassword,
	}})
}

// ChangePassword replaces the admin password and issues a fresh token, as
// tokens of the previous password stop working.
func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	admin, ok := currentAdmin(c)
	if !ok {
		return handler.respondErrorCode(c, fiber.StatusUnauthorized, kindUnauthorized, "unauthorized")
	}
	var input changePasswordInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	if err := handler.auth.ChangePassword(admin.ID, input.CurrentPassword, input.NewPassword, input.ConfirmPassword); err != nil {
		return handler.respondError(c, err)
	}

	updated, err := handler.auth.FindByID(admin.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	token, expiresAt, err := handler.buildToken(updated, time.Now())
	if err != nil {
		return handler.ErrorHandler(c, err)
	}
	handler.setAuthCookie(c, token, expiresAt)
	return respondSuccess(c, fiber.StatusOK, fiber.Map{
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}
