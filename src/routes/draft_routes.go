package routes

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/controllers"
)

func draftRoutes(app *fiber.App, requireAuth fiber.Handler, h controllers.DraftController) {
	drafts := app.Group("/drafts", requireAuth)
	drafts.Get("/:formId", h.GetDraft)
	drafts.Put("/:formId", h.SaveDraft)
	drafts.Delete("/:formId", h.DeleteDraft)
	drafts.Get("/:formId/progress", h.GetDraftProgress)
	drafts.Patch("/:formId/items/:itemId", h.UpdateDraftAnswer)
}
