package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engagebot/timetable-api/internal/models"
	"github.com/engagebot/timetable-api/internal/service"
	appErrors "github.com/engagebot/timetable-api/pkg/errors"
	"github.com/engagebot/timetable-api/pkg/response"
)

// AssistantHandler wires the conversational endpoint.
type AssistantHandler struct {
	service *service.AssistantService
}

// NewAssistantHandler creates a new handler.
func NewAssistantHandler(svc *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{service: svc}
}

// Ask godoc
// @Summary Ask the schedule assistant
// @Description Answer a free-text question about the caller's timetable
// @Tags Assistant
// @Accept json
// @Produce json
// @Param payload body models.AskRequest true "Question payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assistant/ask [post]
func (h *AssistantHandler) Ask(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid question payload"))
		return
	}

	answer, err := h.service.Ask(c.Request.Context(), userFromClaims(claims), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, answer, nil)
}
