package routes

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/controllers"
)

func customizationRoutes(app *fiber.App, requireAuth fiber.Handler, h controllers.CustomizationController) {
	tc := app.Group("/template-customizations", requireAuth)
	tc.Get("/:formId", h.GetCustomization)
	tc.Put("/:formId", h.UpsertCustomization)
	tc.Delete("/:formId", h.ResetCustomization)
	tc.Post("/:formId/items", h.AddItem)
	tc.Post("/:formId/items/:itemId/removal", h.RequestRemoval)
	tc.Delete("/:formId/items/:itemId/removal", h.CancelRemoval)
	tc.Delete("/:formId/items/:itemId", h.ConfirmRemoval)
}
