package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/services/auth"
	"Backend-Inspectrack/src/services/catalog"
	"Backend-Inspectrack/src/services/customizations"
	"Backend-Inspectrack/src/services/drafts"
	"Backend-Inspectrack/src/services/formmodel"
	"Backend-Inspectrack/src/services/inspections"
	"Backend-Inspectrack/src/services/issues"
	"Backend-Inspectrack/src/store"
	"Backend-Inspectrack/src/utils"
)

var errBadBody = errors.New("invalid request body")

var badRequestErrors = []error{
	drafts.ErrInvalidValue,
	customizations.ErrInvalidCustomization,
	inspections.ErrInvalidStatus,
	inspections.ErrInvalidDate,
	issues.ErrInvalidStatus,
	issues.ErrInvalidPriority,
	issues.ErrTitleRequired,
	formmodel.ErrLabelRequired,
	formmodel.ErrSectionRequired,
	formmodel.ErrUnknownSection,
	formmodel.ErrInvalidInputType,
}

// respondError maps service errors onto HTTP statuses. Anything unknown is
// logged and hidden behind a 500.
func respondError(c *fiber.Ctx, tag string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, catalog.ErrTemplateNotFound),
		errors.Is(err, formmodel.ErrItemNotFound):
		return utils.HandleError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrNoSession):
		return utils.HandleError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		return utils.HandleError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, customizations.ErrRemovalNotPending):
		return utils.HandleError(c, fiber.StatusConflict, err.Error())
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
		}
	}
	log.Printf("[%s] ❌ %v", tag, err)
	return utils.HandleError(c, fiber.StatusInternalServerError, "Internal server error")
}

// parseJSON parses the body into dst and runs its validate tags.
func parseJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errBadBody
	}
	return utils.ValidateStruct(dst)
}

func badRequest(c *fiber.Ctx, err error) error {
	return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
}

func unauthorized(c *fiber.Ctx) error {
	return utils.HandleError(c, fiber.StatusUnauthorized, "Missing session")
}
