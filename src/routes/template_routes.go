package routes

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/controllers"
)

func templateRoutes(app *fiber.App, requireAuth fiber.Handler, h controllers.TemplateController) {
	templates := app.Group("/templates", requireAuth)
	templates.Get("/", h.ListTemplates)
	templates.Get("/library", h.LookupLibrary) // before /:formId
	templates.Get("/:formId", h.GetTemplate)
	templates.Get("/:formId/view", h.GetTemplateView)
}
