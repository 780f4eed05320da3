package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListReports(c *fiber.Ctx) error {
	sheets, err := handler.reports.ReportsForDay(c.Params("date"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"reports": sheets})
}

// GetReport answers {"report": null} when nothing was saved for the pair.
func (handler *Handler) GetReport(c *fiber.Ctx) error {
	doctorID, err := parseIDParam(c, "doctorID")
	if err != nil {
		return handler.respondError(c, err)
	}
	sheet, err := handler.reports.GetReportWithTasks(c.Params("date"), doctorID)
	if err != nil {
		return handler.respondError(c, err)
	}
	if sheet == nil {
		return respondSuccess(c, fiber.StatusOK, fiber.Map{"report": nil})
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"report": sheet})
}

func (handler *Handler) OpenReport(c *fiber.Ctx) error {
	doctorID, err := parseIDParam(c, "doctorID")
	if err != nil {
		return handler.respondError(c, err)
	}
	report, err := handler.reports.GetOrCreateReport(c.Params("date"), doctorID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"report": report})
}

func (handler *Handler) SaveReport(c *fiber.Ctx) error {
	doctorID, err := parseIDParam(c, "doctorID")
	if err != nil {
		return handler.respondError(c, err)
	}
	var input outcomesInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	sheet, err := handler.reports.SaveReport(c.Params("date"), doctorID, input.Tasks)
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"report": sheet})
}

// CheckAll marks every task of the sheet complete, or clears the marks with
// {"checked": false}.
func (handler *Handler) CheckAll(c *fiber.Ctx) error {
	doctorID, err := parseIDParam(c, "doctorID")
	if err != nil {
		return handler.respondError(c, err)
	}
	var input checkAllInput
	if err := parseOptionalBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	checked := input.Checked == nil || *input.Checked

	sheet, err := handler.reports.CheckAll(c.Params("date"), doctorID, checked)
	if err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, fiber.Map{"report": sheet})
}

func (handler *Handler) SaveReportTasks(c *fiber.Ctx) error {
	reportID, err := parseIDParam(c, "reportID")
	if err != nil {
		return handler.respondError(c, err)
	}
	var input outcomesInput
	if err := parseBody(c, &input); err != nil {
		return handler.respondError(c, err)
	}
	if err := handler.reports.SaveReportTasks(reportID, input.Tasks); err != nil {
		return handler.respondError(c, err)
	}
	return respondSuccess(c, fiber.StatusOK, nil)
}
