package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"Backend-Inspectrack/src/middleware"
	"Backend-Inspectrack/src/services/inspections"
	"Backend-Inspectrack/src/services/reports"
)

type InspectionController struct {
	Inspections *inspections.Service
	Reports     *reports.Service
}

// SubmitForm godoc
// @Summary      Submit a form
// @Description  Records an inspection from the given responses, or from the stored draft when the body is empty, and opens one issue per flagged item
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        formId path string true "Form ID"
// @Param        body body inspections.SubmitRequest false "Responses"
// @Success      201  {object}  formmodel.Submission
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /forms/{formId}/submit [post]
func (h InspectionController) SubmitForm(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	var req inspections.SubmitRequest
	if len(c.Body()) > 0 {
		if err := parseJSON(c, &req); err != nil {
			return badRequest(c, err)
		}
	}
	sub, err := h.Inspections.Submit(c.UserContext(), sess, c.Params("formId"), req)
	if err != nil {
		return respondError(c, "submit", err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// ListInspections godoc
// @Summary      List inspections
// @Description  Newest first. date narrows to one UTC calendar day.
// @Tags         inspections
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "YYYY-MM-DD"
// @Success      200  {array}   models.Inspection
// @Failure      400  {object}  models.ErrorResponse
// @Router       /inspections [get]
func (h InspectionController) ListInspections(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	list, err := h.Inspections.List(c.UserContext(), sess, c.Query("date"))
	if err != nil {
		return respondError(c, "inspections", err)
	}
	return c.JSON(list)
}

// CreateInspection godoc
// @Summary      Record an inspection
// @Tags         inspections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body inspections.CreateInspectionRequest true "Inspection"
// @Success      201  {object}  models.Inspection
// @Failure      400  {object}  models.ErrorResponse
// @Router       /inspections [post]
func (h InspectionController) CreateInspection(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	var req inspections.CreateInspectionRequest
	if err := parseJSON(c, &req); err != nil {
		return badRequest(c, err)
	}
	in, err := h.Inspections.Create(c.UserContext(), sess, req)
	if err != nil {
		return respondError(c, "inspections", err)
	}
	return c.Status(fiber.StatusCreated).JSON(in)
}

// DeleteInspections godoc
// @Summary      Delete every inspection of the building
// @Tags         inspections
// @Produce      json
// @Security     BearerAuth
// @Success      200
// @Router       /inspections [delete]
func (h InspectionController) DeleteInspections(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	n, err := h.Inspections.DeleteAll(c.UserContext(), sess)
	if err != nil {
		return respondError(c, "inspections", err)
	}
	return c.JSON(fiber.Map{"deleted": n})
}

// GetInspection godoc
// @Summary      Get an inspection
// @Tags         inspections
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Inspection ID"
// @Success      200  {object}  models.Inspection
// @Failure      404  {object}  models.ErrorResponse
// @Router       /inspections/{id} [get]
func (h InspectionController) GetInspection(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	in, err := h.Inspections.Get(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		return respondError(c, "inspections", err)
	}
	return c.JSON(in)
}

// GetInspectionReport godoc
// @Summary      Printable inspection report
// @Tags         inspections
// @Produce      html
// @Security     BearerAuth
// @Param        id path string true "Inspection ID"
// @Success      200  {string}  string
// @Failure      404  {object}  models.ErrorResponse
// @Router       /inspections/{id}/report [get]
func (h InspectionController) GetInspectionReport(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	html, err := h.Reports.HTML(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		return respondError(c, "report", err)
	}
	c.Type("html", "utf-8")
	return c.Send(html)
}

// GetInspectionPDF godoc
// @Summary      Export an inspection as PDF
// @Tags         inspections
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Inspection ID"
// @Success      200  {file}    file
// @Failure      404  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /inspections/{id}/pdf [get]
func (h InspectionController) GetInspectionPDF(c *fiber.Ctx) error {
	sess, ok := middleware.Session(c)
	if !ok {
		return unauthorized(c)
	}
	pdf, name, err := h.Reports.PDF(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		return respondError(c, "report", err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(pdf)
}
