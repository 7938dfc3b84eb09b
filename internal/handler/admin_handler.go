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

// AdminHandler wires the admin endpoints.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// Dashboard godoc
// @Summary Admin dashboard summary
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// Chart godoc
// @Summary Active versus inactive teacher counts
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/chart [get]
func (h *AdminHandler) Chart(c *gin.Context) {
	chart, err := h.service.ChartData(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chart, nil)
}

// ListTeachers godoc
// @Summary Teacher roster
// @Tags Admin
// @Produce json
// @Param search query string false "Username, email or department substring"
// @Param status query string false "all, active or inactive" default(all)
// @Success 200 {object} response.Envelope
// @Router /admin/teachers [get]
func (h *AdminHandler) ListTeachers(c *gin.Context) {
	filter := models.TeacherListFilter{
		Search: c.Query("search"),
		Status: c.DefaultQuery("status", "all"),
	}

	teachers, err := h.service.ListTeachers(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// CreateTeacher godoc
// @Summary Create teacher account
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/teachers [post]
func (h *AdminHandler) CreateTeacher(c *gin.Context) {
	var req models.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher payload"))
		return
	}

	overview, err := h.service.CreateTeacher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, overview)
}

// ToggleTeacher godoc
// @Summary Toggle teacher active status
// @Tags Admin
// @Produce json
// @Param id path string true "Teacher user ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/teachers/{id}/toggle [post]
func (h *AdminHandler) ToggleTeacher(c *gin.Context) {
	active, err := h.service.ToggleTeacherStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"active": active}, nil)
}

// DeleteTeacher godoc
// @Summary Delete teacher account
// @Tags Admin
// @Produce json
// @Param id path string true "Teacher user ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/teachers/{id} [delete]
func (h *AdminHandler) DeleteTeacher(c *gin.Context) {
	if err := h.service.DeleteTeacher(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListUploads godoc
// @Summary Browse timetable uploads
// @Tags Admin
// @Produce json
// @Param search query string false "Uploader or filename substring"
// @Param uploader query string false "Uploader username substring"
// @Param date query string false "Upload date (YYYY-MM-DD)"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} response.Envelope
// @Router /admin/uploads [get]
func (h *AdminHandler) ListUploads(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := models.UploadFilter{
		Search:   c.Query("search"),
		Uploader: c.Query("uploader"),
		Date:     c.Query("date"),
		Page:     page,
		PageSize: size,
	}

	uploads, pagination, err := h.service.ListUploads(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, uploads, pagination)
}
