package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/engagebot/timetable-api/internal/middleware"
	"github.com/engagebot/timetable-api/internal/models"
	"github.com/engagebot/timetable-api/internal/service"
)

type fakeEntryRepo struct {
	entries []models.Entry
}

func (f *fakeEntryRepo) ListByTeacherName(ctx context.Context, name string) ([]models.Entry, error) {
	return f.entries, nil
}

type fakeProfileRepo struct{}

func (f *fakeProfileRepo) Touch(ctx context.Context, userID string, ts time.Time) error {
	return nil
}

type fakeCompleter struct {
	answer string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return f.answer, nil
}

func assistantTestContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/assistant/ask", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID:   "usr-1",
		Username: "rao",
		Role:     models.RoleTeacher,
	})
	return c, rec
}

func newAssistantHandler(entries []models.Entry, answer string) *AssistantHandler {
	svc := service.NewAssistantService(
		&fakeEntryRepo{entries: entries},
		&fakeProfileRepo{},
		&fakeCompleter{answer: answer},
		service.NewMetricsService(),
		validator.New(),
		zap.NewNop(),
		time.UTC,
	)
	return NewAssistantHandler(svc)
}

func TestAssistantHandlerAskNoTimetable(t *testing.T) {
	handler := newAssistantHandler(nil, "")
	c, rec := assistantTestContext(t, `{"query":"What do I have today?"}`)

	handler.Ask(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data models.AssistantAnswer `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "No timetable data found. Please upload your timetable first.", envelope.Data.Answer)
	assert.True(t, envelope.Data.FastPath)
}

func TestAssistantHandlerAskReturnsModelAnswer(t *testing.T) {
	entries := []models.Entry{
		{Day: "Mo", Subject: "Physics", StartTime: "09:00", EndTime: "10:00"},
	}
	handler := newAssistantHandler(entries, "You teach one class a week.")
	c, rec := assistantTestContext(t, `{"query":"Summarize my week"}`)

	handler.Ask(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data models.AssistantAnswer `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "You teach one class a week.", envelope.Data.Answer)
	assert.False(t, envelope.Data.FastPath)
}

func TestAssistantHandlerAskRejectsEmptyQuery(t *testing.T) {
	handler := newAssistantHandler(nil, "")
	c, rec := assistantTestContext(t, `{"query":""}`)

	handler.Ask(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssistantHandlerAskRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAssistantHandler(nil, "")
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/assistant/ask", strings.NewReader(`{"query":"hi"}`))

	handler.Ask(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
