package controllers

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/middleware"
	"Backend-Inspectrack/src/services/catalog"
	"Backend-Inspectrack/src/services/customizations"
	"Backend-Inspectrack/src/utils"
)

type TemplateController struct {
	Catalog        *catalog.Catalog
	Customizations *customizations.Service
}

// ListTemplates godoc
// @Summary      List form templates
// @Tags         templates
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.FormTemplate
// @Router       /templates [get]
func (h TemplateController) ListTemplates(c *fiber.Ctx) error {
	return c.JSON(h.Catalog.List())
}

// LookupLibrary godoc
// @Summary      Item library
// @Description  Suggested input types for common item labels. With exact=true only a matching label is returned.
// @Tags         templates
// @Produce      json
// @Security     BearerAuth
// @Param        label query string false "Label or label fragment"
// @Param        exact query bool false "Require an exact label match"
// @Success      200  {array}   catalog.LibraryEntry
// @Failure      404  {object}  models.ErrorResponse
// @Router       /templates/library [get]
func (h TemplateController) LookupLibrary(c *fiber.Ctx) error {
	label := c.Query("label")
	if c.QueryBool("exact") {
		entry, ok := catalog.LookupLibrary(label)
		if !ok {
			return utils.HandleError(c, fiber.StatusNotFound, "No library entry for "+label)
		}
		return c.JSON([]catalog.LibraryEntry{entry})
	}
	return c.JSON(catalog.SearchLibrary(label))
}

// GetTemplate godoc
// @Summary      Get a template
// @Tags         templates
// @Produce      json
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Success      200  {object}  models.FormTemplate
// @Failure      404  {object}  models.ErrorResponse
// @Router       /templates/{formId} [get]
func (h TemplateController) GetTemplate(c *fiber.Ctx) error {
	t, err := h.Catalog.Get(c.Params("formId"))
	if err != nil {
		return respondError(c, "templates", err)
	}
	return c.JSON(t)
}

// GetTemplateView godoc
// @Summary      Get the form as the building sees it
// @Description  Template sections with the building's removed items hidden and custom items appended
// @Tags         templates
// @Produce      json
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Success      200  {object}  customizations.View
// @Failure      404  {object}  models.ErrorResponse
// @Router       /templates/{formId}/view [get]
func (h TemplateController) GetTemplateView(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	v, err := h.Customizations.View(c.UserContext(), sess, c.Params("formId"))
	if err != nil {
		return respondError(c, "templates", err)
	}
	return c.JSON(v)
}
