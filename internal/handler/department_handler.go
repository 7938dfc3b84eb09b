package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/engagebot/timetable-api/internal/models"
	"github.com/engagebot/timetable-api/internal/service"
	appErrors "github.com/engagebot/timetable-api/pkg/errors"
	"github.com/engagebot/timetable-api/pkg/response"
)

// DepartmentHandler wires the department browsing and publishing endpoints.
type DepartmentHandler struct {
	service *service.DepartmentService
}

// NewDepartmentHandler creates a new handler.
func NewDepartmentHandler(svc *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: svc}
}

// List godoc
// @Summary List departments with semesters
// @Tags Departments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}

// Create godoc
// @Summary Create department
// @Tags Departments
// @Accept json
// @Produce json
// @Param payload body models.CreateDepartmentRequest true "Department payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req models.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid department payload"))
		return
	}

	dept, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dept)
}

// Delete godoc
// @Summary Delete department
// @Tags Departments
// @Produce json
// @Param id path string true "Department ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Publish godoc
// @Summary Publish department timetable PDF
// @Tags Departments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Department ID"
// @Param semester formData int true "Semester number"
// @Param title formData string false "Display title"
// @Param file formData file true "Timetable PDF"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/departments/{id}/timetables [post]
func (h *DepartmentHandler) Publish(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	semester, err := strconv.Atoi(c.PostForm("semester"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester must be a number"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing file field"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file"))
		return
	}
	defer file.Close()

	pdf, err := h.service.Publish(c.Request.Context(), c.Param("id"), semester, c.PostForm("title"), fileHeader.Filename, claims.UserID, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pdf)
}

// ListPublished godoc
// @Summary List published PDFs for a semester
// @Tags Departments
// @Produce json
// @Param id path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /departments/semesters/{id}/timetables [get]
func (h *DepartmentHandler) ListPublished(c *gin.Context) {
	pdfs, err := h.service.ListPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pdfs, nil)
}

// Download godoc
// @Summary Download a published PDF
// @Tags Departments
// @Produce octet-stream
// @Param id path string true "Timetable PDF ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /departments/timetables/{id} [get]
func (h *DepartmentHandler) Download(c *gin.Context) {
	pdf, file, err := h.service.OpenPublished(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", `attachment; filename="`+pdf.FileName+`"`)
	c.Header("Content-Type", "application/pdf")
	http.ServeContent(c.Writer, c.Request, pdf.FileName, pdf.UpdatedAt, file)
}

// DeletePublished godoc
// @Summary Delete a published PDF
// @Tags Departments
// @Produce json
// @Param id path string true "Timetable PDF ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/departments/timetables/{id} [delete]
func (h *DepartmentHandler) DeletePublished(c *gin.Context) {
	if err := h.service.DeletePublished(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
