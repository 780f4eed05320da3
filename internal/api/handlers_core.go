package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/labcheck/internal/services"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) Today(c *fiber.Ctx) error {
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"today": handler.catalog.Today()})
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return handler.respondErrorCode(c, fiber.StatusNotFound, services.KindNotFound, "route_not_found")
}
