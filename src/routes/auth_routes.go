package routes

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/controllers"
)

// login is public; logout needs the token it revokes
func authRoutes(app *fiber.App, requireAuth fiber.Handler, h controllers.AuthController) {
	auth := app.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Post("/logout", requireAuth, h.Logout)
}
