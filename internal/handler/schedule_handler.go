package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engagebot/timetable-api/internal/service"
	"github.com/engagebot/timetable-api/internal/timetable"
	appErrors "github.com/engagebot/timetable-api/pkg/errors"
	"github.com/engagebot/timetable-api/pkg/response"
)

// ScheduleHandler wires the teacher-facing schedule endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
	exports   *service.ExportService
}

// NewScheduleHandler creates a new handler.
func NewScheduleHandler(schedules *service.ScheduleService, exports *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, exports: exports}
}

// Dashboard godoc
// @Summary Teacher dashboard summary
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/dashboard [get]
func (h *ScheduleHandler) Dashboard(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dashboard, err := h.schedules.Dashboard(c.Request.Context(), claims.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// Weekly godoc
// @Summary Full weekly schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Weekly(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	schedule, err := h.schedules.ScheduleData(c.Request.Context(), claims.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Day godoc
// @Summary Classes for one weekday
// @Tags Schedule
// @Produce json
// @Param day path string true "Weekday name or two-letter code"
// @Success 200 {object} response.Envelope
// @Router /schedule/day/{day} [get]
func (h *ScheduleHandler) Day(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	day := timetable.DayName(c.Param("day"))
	classes, err := h.schedules.ClassesForDay(c.Request.Context(), claims.Username, day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil, map[string]interface{}{"day": day})
}

// Next godoc
// @Summary Next upcoming class today
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/next [get]
func (h *ScheduleHandler) Next(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	next, err := h.schedules.NextClass(c.Request.Context(), claims.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, next, nil)
}

// FreeSlots godoc
// @Summary Free slots for one weekday
// @Tags Schedule
// @Produce json
// @Param day path string true "Weekday name or two-letter code"
// @Success 200 {object} response.Envelope
// @Router /schedule/free/{day} [get]
func (h *ScheduleHandler) FreeSlots(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	day := timetable.DayName(c.Param("day"))
	slots, err := h.schedules.FreeSlots(c.Request.Context(), claims.Username, day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil, map[string]interface{}{"day": day})
}

// WeeklyPlan godoc
// @Summary Weekly class counts
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/plan [get]
func (h *ScheduleHandler) WeeklyPlan(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	plan, err := h.schedules.WeeklyPlan(c.Request.Context(), claims.Username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Export godoc
// @Summary Export schedule as CSV or PDF
// @Tags Schedule
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.Export(c.Request.Context(), claims.Username, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
