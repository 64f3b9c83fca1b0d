package controllers

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/middleware"
	"Backend-Inspectrack/src/services/drafts"
)

type DraftController struct {
	Drafts *drafts.Service
}

// GetDraft godoc
// @Summary      Get the building's draft for a form
// @Description  Returns an empty draft when none has been saved
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Success      200  {object}  models.Draft
// @Failure      404  {object}  models.ErrorResponse
// @Router       /drafts/{formId} [get]
func (h DraftController) GetDraft(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	d, err := h.Drafts.Get(c.UserContext(), sess, c.Params("formId"))
	if err != nil {
		return respondError(c, "drafts", err)
	}
	return c.JSON(d)
}

// SaveDraft godoc
// @Summary      Save a draft
// @Description  Replaces the stored draft. Last write wins.
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Param        body body drafts.SaveDraftRequest true "Draft"
// @Success      200  {object}  models.Draft
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /drafts/{formId} [put]
func (h DraftController) SaveDraft(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	var req drafts.SaveDraftRequest
	if err := parseJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	d, err := h.Drafts.Save(c.UserContext(), sess, c.Params("formId"), req)
	if err != nil {
		return respondError(c, "drafts", err)
	}
	return c.JSON(d)
}

// UpdateDraftAnswer godoc
// @Summary      Update one answer
// @Description  Sets any of value, note, actionBy and completionDate for a single item
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Param        itemId path string true "Item ID"
// @Param        body body drafts.AnswerPatch true "Fields to change"
// @Success      200  {object}  models.Draft
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /drafts/{formId}/items/{itemId} [patch]
func (h DraftController) UpdateDraftAnswer(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	var p drafts.AnswerPatch
	if err := parseJSON(c, &p); err != nil {
		return badRequest(c, err)
	}
	d, err := h.Drafts.UpdateAnswer(c.UserContext(), sess, c.Params("formId"), c.Params("itemId"), p)
	if err != nil {
		return respondError(c, "drafts", err)
	}
	return c.JSON(d)
}

// DeleteDraft godoc
// @Summary      Discard a draft
// @Tags         drafts
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Success      204
// @Router       /drafts/{formId} [delete]
func (h DraftController) DeleteDraft(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.Drafts.Delete(c.UserContext(), sess, c.Params("formId")); err != nil {
		return respondError(c, "drafts", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetDraftProgress godoc
// @Summary      Draft progress
// @Description  Percentage of required items answered and the number of issues flagged so far
// @Tags         drafts
// @Produce      json
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Success      200  {object}  drafts.Progress
// @Failure      404  {object}  models.ErrorResponse
// @Router       /drafts/{formId}/progress [get]
func (h DraftController) GetDraftProgress(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	p, err := h.Drafts.Progress(c.UserContext(), sess, c.Params("formId"))
	if err != nil {
		return respondError(c, "drafts", err)
	}
	return c.JSON(p)
}
