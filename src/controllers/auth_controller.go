package controllers

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/middleware"
	"Backend-Inspectrack/src/services/auth"
)

type AuthController struct {
	Auth *auth.Service
}

// Login godoc
// @Summary      Log in
// @Description  Exchange email and password for a bearer token scoped to the user's building
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body auth.LoginRequest true "Credentials"
// @Success      200  {object}  auth.LoginResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /auth/login [post]
func (h AuthController) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := parseJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	res, err := h.Auth.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, "auth", err)
	}

	c.Set("X-Frame-Options", "DENY")
	c.Set("X-Content-Type-Options", "nosniff")
	return c.JSON(res)
}

// Logout godoc
// @Summary      Log out
// @Description  Revoke the current token until it expires
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200
// @Failure      401  {object}  models.ErrorResponse
// @Router       /auth/logout [post]
func (h AuthController) Logout(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.Auth.Logout(c.UserContext(), middleware.Token(c), sess); err != nil {
		return respondError(c, "auth", err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}
