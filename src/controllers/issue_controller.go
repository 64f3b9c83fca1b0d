package controllers

import (
	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/middleware"
	"Backend-Inspectrack/src/services/issues"
)

type IssueController struct {
	Issues *issues.Service
}

// ListIssues godoc
// @Summary      List issues
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "open or resolved"
// @Success      200  {array}   models.Issue
// @Failure      400  {object}  models.ErrorResponse
// @Router       /issues [get]
func (h IssueController) ListIssues(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.Issues.List(c.UserContext(), sess, c.Query("status"))
	if err != nil {
		return respondError(c, "issues", err)
	}
	return c.JSON(list)
}

// GetIssue godoc
// @Summary      Get an issue
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Issue ID"
// @Success      200  {object}  models.Issue
// @Failure      404  {object}  models.ErrorResponse
// @Router       /issues/{id} [get]
func (h IssueController) GetIssue(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	is, err := h.Issues.Get(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		return respondError(c, "issues", err)
	}
	return c.JSON(is)
}

// CreateIssue godoc
// @Summary      Report an issue by hand
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body issues.CreateIssueRequest true "Issue"
// @Success      201  {object}  models.Issue
// @Failure      400  {object}  models.ErrorResponse
// @Router       /issues [post]
func (h IssueController) CreateIssue(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	var req issues.CreateIssueRequest
	if err := parseJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	is, err := h.Issues.Create(c.UserContext(), sess, req)
	if err != nil {
		return respondError(c, "issues", err)
	}
	return c.Status(fiber.StatusCreated).JSON(is)
}

// UpdateIssueStatus godoc
// @Summary      Resolve or reopen an issue
// @Tags         issues
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Issue ID"
// @Param        body body issues.UpdateStatusRequest true "New status"
// @Success      200  {object}  models.Issue
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /issues/{id} [patch]
func (h IssueController) UpdateIssueStatus(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	var req issues.UpdateStatusRequest
	if err := parseJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	is, err := h.Issues.UpdateStatus(c.UserContext(), sess, c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, "issues", err)
	}
	return c.JSON(is)
}

// ClearIssues godoc
// @Summary      Delete every issue of the building
// @Tags         issues
// @Produce      json
// @Security     BearerAuth
// @Success      200
// @Router       /issues [delete]
func (h IssueController) ClearIssues(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	n, err := h.Issues.Clear(c.UserContext(), sess)
	if err != nil {
		return respondError(c, "issues", err)
	}
	return c.JSON(fiber.Map{"deleted": n})
}
