package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/labcheck/internal/services"
)

// ExportDay downloads the reports of one day in the legacy day file layout.
func (handler *Handler) ExportDay(c *fiber.Ctx) error {
	file, err := handler.legacy.ExportDay(c.Params("date"))
	if err != nil {
		return handler.respondError(c, err)
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "day-"+c.Params("date")+".json"))
	return c.Status(fiber.StatusOK).JSON(file)
}

func (handler *Handler) ImportDay(c *fiber.Ctx) error {
	file, err := services.DecodeLegacyDayFile(c.Body())
	if err != nil {
		return handler.respondError(c, err)
	}
	result, err := handler.legacy.ImportLegacyDay(file, c.Params("date"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"result": result})
}
