package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/labcheck/internal/models"
)

func requestToken(c *fiber.Ctx) string {
	authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(authorization) > len("Bearer ") && strings.EqualFold(authorization[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(authorization[len("Bearer "):])
	}
	return strings.TrimSpace(c.Cookies(authCookieName))
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (models.Admin, error) {
	tokenValue := requestToken(c)
	if tokenValue == "" {
		return models.Admin{}, errors.New("missing auth token")
	}

	claims := &adminClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	})
	if err != nil || !token.Valid {
		return models.Admin{}, errors.New("invalid token")
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
		return models.Admin{}, errors.New("token expired")
	}

	admin, err := handler.auth.FindByID(claims.AdminID)
	if err != nil {
		return models.Admin{}, err
	}
	if claims.PasswordState != passwordState(admin.PasswordHash) {
		return models.Admin{}, errors.New("token issued for a previous password")
	}
	return admin, nil
}

func currentAdmin(c *fiber.Ctx) (models.Admin, bool) {
	admin, ok := c.Locals(contextAdminKey).(models.Admin)
	return admin, ok
}
