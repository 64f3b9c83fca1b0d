package controllers

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/middleware"
	"Backend-Inspectrack/src/services/customizations"
	"Backend-Inspectrack/src/services/formmodel"
	"Backend-Inspectrack/src/utils"
)

type CustomizationController struct {
	Customizations *customizations.Service
}

// GetCustomization godoc
// @Summary      Get the building's customization of a form
// @Tags         template-customizations
// @Produce      json
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Success      200  {object}  models.TemplateCustomization
// @Failure      404  {object}  models.ErrorResponse
// @Router       /template-customizations/{formId} [get]
func (h CustomizationController) GetCustomization(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.Customizations.Get(c.UserContext(), sess, c.Params("formId"))
	if err != nil {
		return respondError(c, "customizations", err)
	}
	return c.JSON(out)
}

// UpsertCustomization godoc
// @Summary      Replace the building's customization of a form
// @Tags         template-customizations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Param        body body customizations.UpsertRequest true "Custom and removed items"
// @Success      200  {object}  models.TemplateCustomization
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /template-customizations/{formId} [put]
func (h CustomizationController) UpsertCustomization(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	var req customizations.UpsertRequest
	if err := parseJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	out, err := h.Customizations.Upsert(c.UserContext(), sess, c.Params("formId"), req)
	if err != nil {
		return respondError(c, "customizations", err)
	}
	return c.JSON(out)
}

// ResetCustomization godoc
// @Summary      Restore the form to its template
// @Description  Drops custom items and restores removed ones. Draft answers for items that disappear are dropped too.
// @Tags         template-customizations
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /template-customizations/{formId} [delete]
func (h CustomizationController) ResetCustomization(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.Customizations.Reset(c.UserContext(), sess, c.Params("formId")); err != nil {
		return respondError(c, "customizations", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddItem godoc
// @Summary      Add a custom item
// @Description  Input type and unit are prefilled from the item library when omitted
// @Tags         template-customizations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Param        body body formmodel.NewItem true "Item"
// @Success      201  {object}  models.ChecklistItemDefinition
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /template-customizations/{formId}/items [post]
func (h CustomizationController) AddItem(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	var req formmodel.NewItem
	if err := parseJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	item, err := h.Customizations.AddItem(c.UserContext(), sess, c.Params("formId"), req)
	if err != nil {
		return respondError(c, "customizations", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// RequestRemoval godoc
// @Summary      Ask to remove an item
// @Description  Returns a short-lived token that must be presented to confirm the removal
// @Tags         template-customizations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Param        itemId path string true "Item ID"
// @Param        body body customizations.RemovalRequest false "Section of the item"
// @Success      202  {object}  customizations.RemovalTicket
// @Failure      404  {object}  models.ErrorResponse
// @Router       /template-customizations/{formId}/items/{itemId}/removal [post]
func (h CustomizationController) RequestRemoval(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	var req customizations.RemovalRequest
	if len(c.Body()) > 0 {
		if err := parseJSON(c, &req); err != nil {
			return badRequest(c, err)
		}
	}
	ticket, err := h.Customizations.RequestRemoval(c.UserContext(), sess, c.Params("formId"), c.Params("itemId"), req)
	if err != nil {
		return respondError(c, "customizations", err)
	}
	return c.Status(fiber.StatusAccepted).JSON(ticket)
}

// CancelRemoval godoc
// @Summary      Cancel a pending removal
// @Tags         template-customizations
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Param        itemId path string true "Item ID"
// @Param        token query string true "Removal token"
// @Success      204
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /template-customizations/{formId}/items/{itemId}/removal [delete]
func (h CustomizationController) CancelRemoval(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	token := c.Query("token")
	if token == "" {
		return utils.HandleError(c, fiber.StatusBadRequest, "token is required")
	}
	if err := h.Customizations.CancelRemoval(c.UserContext(), sess, c.Params("formId"), c.Params("itemId"), token); err != nil {
		return respondError(c, "customizations", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ConfirmRemoval godoc
// @Summary      Confirm a pending removal
// @Description  Hides the item for the building and drops its draft answer
// @Tags         template-customizations
// @Produce      json
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Param        itemId path string true "Item ID"
// @Param        token query string true "Removal token"
// @Success      200  {object}  models.TemplateCustomization
// @Failure      400  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /template-customizations/{formId}/items/{itemId} [delete]
func (h CustomizationController) ConfirmRemoval(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	token := c.Query("token")
	if token == "" {
		return utils.HandleError(c, fiber.StatusBadRequest, "token is required")
	}
	out, err := h.Customizations.ConfirmRemoval(c.UserContext(), sess, c.Params("formId"), c.Params("itemId"), token)
	if err != nil {
		return respondError(c, "customizations", err)
	}
	return c.JSON(out)
}
