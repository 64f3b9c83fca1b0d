package routes

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/controllers"
)

func issueRoutes(app *fiber.App, requireAuth fiber.Handler, h controllers.IssueController) {
	issues := app.Group("/issues", requireAuth)
	issues.Get("/", h.ListIssues)
	issues.Post("/", h.CreateIssue)
	issues.Delete("/", h.ClearIssues)
	issues.Get("/:id", h.GetIssue)
	issues.Patch("/:id", h.UpdateIssueStatus)
}
