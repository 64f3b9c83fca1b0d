package routes

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/controllers"
)

func inspectionRoutes(app *fiber.App, requireAuth fiber.Handler, h controllers.InspectionController) {
	app.Post("/forms/:formId/submit", requireAuth, h.SubmitForm)

	inspections := app.Group("/inspections", requireAuth)
	inspections.Get("/", h.ListInspections)
	inspections.Post("/", h.CreateInspection)
	inspections.Delete("/", h.DeleteInspections)
	inspections.Get("/:id", h.GetInspection)
	inspections.Get("/:id/report", h.GetInspectionReport)
	inspections.Get("/:id/pdf", h.GetInspectionPDF)
}
