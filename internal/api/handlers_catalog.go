package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/labcheck/internal/models"
	"github.com/terraincognita07/labcheck/internal/services"
)

func (handler *Handler) ListDoctors(c *fiber.Ctx) error {
	doctors, err := handler.catalog.ListActiveDoctors(c.Query("date"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"doctors": doctors})
}

func (handler *Handler) AddDoctor(c *fiber.Ctx) error {
	var input doctorInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	doctor, err := handler.catalog.AddDoctor(input.Name, input.ValidFrom)
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusCreated, fiber.Map{"doctor": doctor})
}

func (handler *Handler) RenameDoctor(c *fiber.Ctx) error {
	doctorID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.respondError(c, err)
	}
	var input doctorInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	doctor, err := handler.catalog.RenameDoctor(doctorID, input.Name, input.Effective)
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"doctor": doctor})
}

func (handler *Handler) DeactivateDoctor(c *fiber.Ctx) error {
	return handler.closeVersion(c, handler.catalog.DeactivateDoctor)
}

func (handler *Handler) ListBlocks(c *fiber.Ctx) error {
	blocks, err := handler.catalog.ListActiveBlocks(c.Query("date"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"blocks": blocks})
}

func (handler *Handler) AddBlock(c *fiber.Ctx) error {
	var input blockInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	block, err := handler.catalog.AddBlock(input.Label, input.DisplayOrder, input.ValidFrom)
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusCreated, fiber.Map{"block": block})
}

func (handler *Handler) UpdateBlock(c *fiber.Ctx) error {
	blockID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.respondError(c, err)
	}
	var input blockInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	block, err := handler.catalog.UpdateBlock(blockID, input.Label, input.DisplayOrder, input.Effective)
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"block": block})
}

func (handler *Handler) DeactivateBlock(c *fiber.Ctx) error {
	return handler.closeVersion(c, handler.catalog.DeactivateBlock)
}

func (handler *Handler) AddTask(c *fiber.Ctx) error {
	blockID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.respondError(c, err)
	}
	var input taskInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	task, err := handler.catalog.AddTask(blockID, input.Number, input.Label, input.ValidFrom)
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusCreated, fiber.Map{"task": task})
}

func (handler *Handler) UpdateTask(c *fiber.Ctx) error {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return handler.respondError(c, err)
	}
	var input taskInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	task, err := handler.catalog.UpdateTask(taskID, input.Label, input.Effective)
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"task": task})
}

func (handler *Handler) DeactivateTask(c *fiber.Ctx) error {
	return handler.closeVersion(c, handler.catalog.DeactivateTask)
}

// closeVersion serves the deactivate routes; the body and valid_to are
// optional.
func (handler *Handler) closeVersion(c *fiber.Ctx, deactivate func(id uint, validTo string) (bool, error)) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return handler.respondError(c, err)
	}
	var input closeInput
	if err := parseOptionalBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	changed, err := deactivate(id, input.ValidTo)
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"changed": changed})
}

func (handler *Handler) GetCatalog(c *fiber.Ctx) error {
	snapshot, err := handler.catalog.GetCatalog(c.Query("date"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"catalog": snapshot})
}

// ApplyCatalog accepts the document as JSON, or as YAML when the request is
// sent with a YAML content type.
func (handler *Handler) ApplyCatalog(c *fiber.Ctx) error {
	var document models.CatalogDocument
	if strings.Contains(strings.ToLower(c.Get(fiber.HeaderContentType)), "yaml") {
		parsed, err := services.ParseCatalogYAML(c.Body())
		if err != nil {
			return handler.respondError(c, err)
		}
		document = parsed
	} else if err := parseBody(c, &document); err != nil {
		return handler.respondError(c, err)
	}

	result, err := handler.catalog.ApplyCatalog(document, c.Query("date"), c.QueryBool("prune", false))
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"result": result})
}
