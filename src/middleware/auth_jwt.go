package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/models"
	"Backend-Inspectrack/src/utils"
)

const (
	localSession = "session"
	localToken   = "token"
)

// AuthJWT rejects requests without a valid, non-revoked bearer token and
// stores the caller's session in c.Locals.
func AuthJWT(secret []byte, revoked utils.Ephemeral) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return utils.HandleError(c, fiber.StatusUnauthorized, "Missing or invalid Authorization header")
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		listed, err := utils.IsTokenBlacklisted(c.UserContext(), revoked, tokenStr)
		if err != nil {
			log.Printf("[auth] blacklist lookup failed: %v", err)
			return utils.HandleError(c, fiber.StatusInternalServerError, "Unable to verify session")
		}
		if listed {
			return utils.HandleError(c, fiber.StatusUnauthorized, "Session has been logged out")
		}

		c.Locals(localSession, claims.Session())
		c.Locals(localToken, tokenStr)
		return c.Next()
	}
}

// Session returns the session stored by AuthJWT.
func Session(c *fiber.Ctx) (models.Session, bool) {
	s, ok := c.Locals(localSession).(models.Session)
	return s, ok && s.Valid()
}

// Token returns the raw bearer token of the current request.
func Token(c *fiber.Ctx) string {
	t, _ := c.Locals(localToken).(string)
	return t
}
