package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/engagebot/timetable-api/internal/models"
)

type mockAssistantEntries struct {
	entries []models.Entry
	err     error
}

func (m *mockAssistantEntries) ListByTeacherName(ctx context.Context, name string) ([]models.Entry, error) {
	return m.entries, m.err
}

type mockAssistantProfiles struct {
	touched []string
}

func (m *mockAssistantProfiles) Touch(ctx context.Context, userID string, ts time.Time) error {
	m.touched = append(m.touched, userID)
	return nil
}

type mockCompleter struct {
	answer  string
	err     error
	prompts []string
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

// Wednesday.
var assistantNow = time.Date(2024, 9, 4, 10, 0, 0, 0, time.UTC)

func newAssistantService(entries *mockAssistantEntries, profiles *mockAssistantProfiles, completer *mockCompleter) *AssistantService {
	svc := NewAssistantService(entries, profiles, completer, NewMetricsService(), validator.New(), zap.NewNop(), time.UTC)
	svc.nowFn = func() time.Time { return assistantNow }
	return svc
}

func teacherUser() *models.User {
	return &models.User{ID: "usr-1", Username: "rao", Role: models.RoleTeacher}
}

func TestAssistantAskNoTimetable(t *testing.T) {
	completer := &mockCompleter{}
	svc := newAssistantService(&mockAssistantEntries{}, &mockAssistantProfiles{}, completer)

	answer, err := svc.Ask(context.Background(), teacherUser(), models.AskRequest{Query: "What do I have today?"})
	require.NoError(t, err)
	assert.Equal(t, "No timetable data found. Please upload your timetable first.", answer.Answer)
	assert.True(t, answer.FastPath)
	assert.Empty(t, completer.prompts)
}

func TestAssistantAskFastPathEmptyDay(t *testing.T) {
	entries := &mockAssistantEntries{entries: []models.Entry{
		{Day: "Mo", Subject: "Physics", StartTime: "09:00", EndTime: "10:00"},
	}}
	completer := &mockCompleter{}
	svc := newAssistantService(entries, &mockAssistantProfiles{}, completer)

	answer, err := svc.Ask(context.Background(), teacherUser(), models.AskRequest{Query: "Classes today?"})
	require.NoError(t, err)
	assert.Equal(t, "No classes scheduled for Wednesday.", answer.Answer)
	assert.True(t, answer.FastPath)
	assert.Equal(t, "Wednesday", answer.Day)
	assert.Empty(t, completer.prompts)
}

func TestAssistantAskKalDefaultsTomorrow(t *testing.T) {
	entries := &mockAssistantEntries{entries: []models.Entry{
		{Day: "Mo", Subject: "Physics", StartTime: "09:00", EndTime: "10:00"},
	}}
	svc := newAssistantService(entries, &mockAssistantProfiles{}, &mockCompleter{})

	answer, err := svc.Ask(context.Background(), teacherUser(), models.AskRequest{Query: "kal kitni classes hain?"})
	require.NoError(t, err)
	assert.Equal(t, "No classes scheduled for Thursday.", answer.Answer)
	assert.True(t, answer.FastPath)
}

func TestAssistantAskKalWithPastMarkerMeansYesterday(t *testing.T) {
	entries := &mockAssistantEntries{entries: []models.Entry{
		{Day: "Mo", Subject: "Physics", StartTime: "09:00", EndTime: "10:00"},
	}}
	svc := newAssistantService(entries, &mockAssistantProfiles{}, &mockCompleter{})

	answer, err := svc.Ask(context.Background(), teacherUser(), models.AskRequest{Query: "kal ko class thi?"})
	require.NoError(t, err)
	assert.Equal(t, "No classes scheduled for Tuesday.", answer.Answer)
}

func TestAssistantAskCallsModelWithFilteredContext(t *testing.T) {
	entries := &mockAssistantEntries{entries: []models.Entry{
		{Day: "We", Subject: "Physics", StartTime: "09:00", EndTime: "10:00", Room: "101"},
		{Day: "Mo", Subject: "Chemistry", StartTime: "11:00", EndTime: "12:00"},
	}}
	profiles := &mockAssistantProfiles{}
	completer := &mockCompleter{answer: "You teach Physics at 09:00 in room 101."}
	svc := newAssistantService(entries, profiles, completer)

	answer, err := svc.Ask(context.Background(), teacherUser(), models.AskRequest{Query: "What do I teach today?"})
	require.NoError(t, err)
	assert.False(t, answer.FastPath)
	assert.Equal(t, "You teach Physics at 09:00 in room 101.", answer.Answer)
	assert.Equal(t, "Wednesday", answer.Day)
	assert.Equal(t, []string{"usr-1"}, profiles.touched)

	require.Len(t, completer.prompts, 1)
	prompt := completer.prompts[0]
	assert.Contains(t, prompt, "Today is: Wednesday")
	assert.Contains(t, prompt, "Wednesday: Physics | Time: 09:00-10:00 | Room: 101")
	assert.Contains(t, prompt, "Monday: Chemistry | Time: 11:00-12:00 | Room: Not specified")
	// The filtered section starts after the complete one and excludes Monday.
	filtered := prompt[strings.Index(prompt, "FILTERED TIMETABLE"):]
	assert.NotContains(t, filtered[:strings.Index(filtered, "CRITICAL")], "Monday")
}

func TestAssistantAskGeneralQuerySkipsFilter(t *testing.T) {
	entries := &mockAssistantEntries{entries: []models.Entry{
		{Day: "Mo", Subject: "Chemistry", StartTime: "11:00", EndTime: "12:00"},
	}}
	completer := &mockCompleter{answer: "One class a week."}
	svc := newAssistantService(entries, &mockAssistantProfiles{}, completer)

	answer, err := svc.Ask(context.Background(), teacherUser(), models.AskRequest{Query: "Give me a weekly summary"})
	require.NoError(t, err)
	assert.Empty(t, answer.Day)
	assert.Equal(t, "One class a week.", answer.Answer)
}

func TestAssistantAskModelFailureFallsBack(t *testing.T) {
	entries := &mockAssistantEntries{entries: []models.Entry{
		{Day: "We", Subject: "Physics", StartTime: "09:00", EndTime: "10:00"},
	}}
	completer := &mockCompleter{err: errors.New("rate limited")}
	svc := newAssistantService(entries, &mockAssistantProfiles{}, completer)

	answer, err := svc.Ask(context.Background(), teacherUser(), models.AskRequest{Query: "What do I teach today?"})
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I couldn't process that right now.", answer.Answer)
}

func TestAssistantAskAdminNotTracked(t *testing.T) {
	entries := &mockAssistantEntries{entries: []models.Entry{
		{Day: "We", Subject: "Physics", StartTime: "09:00", EndTime: "10:00"},
	}}
	profiles := &mockAssistantProfiles{}
	svc := newAssistantService(entries, profiles, &mockCompleter{answer: "ok"})

	admin := &models.User{ID: "usr-admin", Username: "admin", Role: models.RoleAdmin}
	_, err := svc.Ask(context.Background(), admin, models.AskRequest{Query: "What is on today?"})
	require.NoError(t, err)
	assert.Empty(t, profiles.touched)
}
