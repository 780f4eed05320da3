package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetSetting(c *fiber.Ctx) error {
	key := c.Params("key")
	value, err := handler.settings.Get(key, c.Query("default"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"key": key, "value": value})
}

func (handler *Handler) SetSetting(c *fiber.Ctx) error {
	key := c.Params("key")
	var input settingInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	if err := handler.settings.Set(key, input.Value); err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"key": key, "value": input.Value})
}

func (handler *Handler) GetTitle(c *fiber.Ctx) error {
	title, err := handler.settings.Title()
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"title": title})
}

func (handler *Handler) SetTitle(c *fiber.Ctx) error {
	var input titleInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	if err := handler.settings.SetTitle(input.Title); err != nil {
		return handler.respondError(c, err)
	}
	return handler.GetTitle(c)
}
