package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")
	api.Get("/today", handler.Today)

	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.CurrentAdmin)
	auth.Post("/password", handler.AuthRequired, handler.ChangePassword)

	doctors := api.Group("/doctors")
	doctors.Get("", handler.ListDoctors)
	doctors.Post("", handler.AuthRequired, handler.AddDoctor)
	doctors.Put("/:id", handler.AuthRequired, handler.RenameDoctor)
	doctors.Post("/:id/deactivate", handler.AuthRequired, handler.DeactivateDoctor)

	blocks := api.Group("/blocks")
	blocks.Get("", handler.ListBlocks)
	blocks.Post("", handler.AuthRequired, handler.AddBlock)
	blocks.Put("/:id", handler.AuthRequired, handler.UpdateBlock)
	blocks.Post("/:id/deactivate", handler.AuthRequired, handler.DeactivateBlock)
	blocks.Post("/:id/tasks", handler.AuthRequired, handler.AddTask)

	tasks := api.Group("/tasks", handler.AuthRequired)
	tasks.Put("/:id", handler.UpdateTask)
	tasks.Post("/:id/deactivate", handler.DeactivateTask)

	catalog := api.Group("/catalog")
	catalog.Get("", handler.GetCatalog)
	catalog.Put("", handler.AuthRequired, handler.ApplyCatalog)

	reports := api.Group("/reports")
	reports.Get("/:date", handler.ListReports)
	reports.Get("/:date/:doctorID", handler.GetReport)
	reports.Post("/:date/:doctorID", handler.OpenReport)
	reports.Put("/:date/:doctorID", handler.SaveReport)
	reports.Post("/:date/:doctorID/check-all", handler.CheckAll)
	api.Put("/report-tasks/:reportID", handler.SaveReportTasks)

	settings := api.Group("/settings")
	settings.Get("/:key", handler.GetSetting)
	settings.Put("/:key", handler.AuthRequired, handler.SetSetting)
	api.Get("/title", handler.GetTitle)
	api.Put("/title", handler.AuthRequired, handler.SetTitle)

	api.Get("/export/days/:date", handler.ExportDay)
	api.Post("/import/days/:date", handler.AuthRequired, handler.ImportDay)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
