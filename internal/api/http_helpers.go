package api

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/labcheck/internal/services"
)

const (
	kindUnauthorized    = "unauthorized"
	kindTooManyRequests = "too_many_attempts"
	kindInternal        = "internal"
)

var errInvalidPayload = fmt.Errorf("%w: request body", services.ErrInvalidInput)

func respondSuccess(c *fiber.Ctx, status int, payload fiber.Map) error {
	body := fiber.Map{"status": "success"}
	for key, value := range payload {
		body[key] = value
	}
	return c.Status(status).JSON(body)
}

// respondError writes the error envelope for a service error.
func (handler *Handler) respondError(c *fiber.Ctx, err error) error {
	kind := services.KindOf(err)
	status := statusForKind(kind)
	if status >= fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return handler.respondErrorCode(c, status, kind, errorCode(err))
}

func (handler *Handler) respondErrorCode(c *fiber.Ctx, status int, kind string, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"kind":    kind,
		"code":    code,
		"message": handler.translate(c, "error."+code),
	})
}

func statusForKind(kind string) int {
	switch kind {
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindConflict:
		return fiber.StatusConflict
	case services.KindInvalidInput:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusServiceUnavailable
	}
}

func (handler *Handler) translate(c *fiber.Ctx, key string) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	if language == "" {
		language = handler.i18n.DefaultLanguage()
	}
	return handler.i18n.Translate(language, key)
}

// ErrorHandler renders errors that escape the handlers, including
// recovered panics.
func (handler *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch {
		case fiberErr.Code == fiber.StatusNotFound:
			return handler.respondErrorCode(c, fiber.StatusNotFound, services.KindNotFound, "route_not_found")
		case fiberErr.Code < fiber.StatusInternalServerError:
			return handler.respondErrorCode(c, fiberErr.Code, services.KindInvalidInput, "invalid_input")
		}
	}
	log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	return handler.respondErrorCode(c, fiber.StatusInternalServerError, kindInternal, "internal")
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || value == 0 {
		return 0, services.ErrInvalidID
	}
	return uint(value), nil
}

func parseBody(c *fiber.Ctx, target any) error {
	if err := c.BodyParser(target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	return nil
}

// parseOptionalBody accepts an empty body and leaves target untouched.
func parseOptionalBody(c *fiber.Ctx, target any) error {
	if len(strings.TrimSpace(string(c.Body()))) == 0 {
		return nil
	}
	return parseBody(c, target)
}
