package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/engagebot/timetable-api/internal/dayquery"
	"github.com/engagebot/timetable-api/internal/models"
	"github.com/engagebot/timetable-api/internal/timetable"
	appErrors "github.com/engagebot/timetable-api/pkg/errors"
	"github.com/engagebot/timetable-api/pkg/llm"
)

type assistantEntryRepository interface {
	ListByTeacherName(ctx context.Context, name string) ([]models.Entry, error)
}

type assistantProfileRepository interface {
	Touch(ctx context.Context, userID string, ts time.Time) error
}

// Canned answers the assistant returns without consulting the model.
const (
	answerNoTimetable = "No timetable data found. Please upload your timetable first."
	answerLLMFailure  = "Sorry, I couldn't process that right now."
)

// AssistantService answers free-text schedule questions. Day references in
// the query narrow the timetable context sent to the model; an empty match for
// a day-specific question is answered locally without a model call.
type AssistantService struct {
	entries   assistantEntryRepository
	profiles  assistantProfileRepository
	completer llm.Completer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
	nowFn     func() time.Time
}

// NewAssistantService constructs an AssistantService.
func NewAssistantService(entries assistantEntryRepository, profiles assistantProfileRepository, completer llm.Completer, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, loc *time.Location) *AssistantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if loc == nil {
		loc = time.Local
	}
	s := &AssistantService{
		entries:   entries,
		profiles:  profiles,
		completer: completer,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		loc:       loc,
	}
	s.nowFn = func() time.Time { return time.Now().In(s.loc) }
	return s
}

// Ask answers one schedule question for the given user.
func (s *AssistantService) Ask(ctx context.Context, user *models.User, req models.AskRequest) (*models.AssistantAnswer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}

	entries, err := s.entries.ListByTeacherName(ctx, user.Username)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entries")
	}

	defer s.trackActivity(ctx, user)

	if len(entries) == 0 {
		s.metrics.RecordAssistantQuery("fast")
		return &models.AssistantAnswer{Answer: answerNoTimetable, FastPath: true}, nil
	}

	now := s.nowFn()
	resolution, dayQuery := dayquery.Resolve(req.Query, now)

	filtered := entries
	if dayQuery {
		filtered = filterByDay(entries, resolution.DayCode)
		if len(filtered) == 0 {
			s.metrics.RecordAssistantQuery("fast")
			return &models.AssistantAnswer{
				Answer:   fmt.Sprintf("No classes scheduled for %s.", resolution.DayName),
				FastPath: true,
				Day:      resolution.DayName,
			}, nil
		}
	}

	prompt := s.buildPrompt(req.Query, now, entries, filtered)

	start := time.Now()
	answer, err := s.completer.Complete(ctx, prompt)
	s.metrics.ObserveLLMCall(time.Since(start), err)
	if err != nil {
		s.logger.Warn("completion failed", zap.String("user_id", user.ID), zap.Error(err))
		s.metrics.RecordAssistantQuery("fallback")
		return &models.AssistantAnswer{Answer: answerLLMFailure}, nil
	}

	s.metrics.RecordAssistantQuery("llm")
	result := &models.AssistantAnswer{Answer: answer}
	if dayQuery {
		result.Day = resolution.DayName
	}
	return result, nil
}

func (s *AssistantService) trackActivity(ctx context.Context, user *models.User) {
	if user.Role == models.RoleAdmin {
		return
	}
	if err := s.profiles.Touch(ctx, user.ID, s.nowFn()); err != nil {
		s.logger.Warn("failed to track assistant activity", zap.String("user_id", user.ID), zap.Error(err))
	}
}

func (s *AssistantService) buildPrompt(query string, now time.Time, entries, filtered []models.Entry) string {
	today := now.Weekday().String()
	tomorrow := now.AddDate(0, 0, 1).Weekday().String()
	yesterday := now.AddDate(0, 0, -1).Weekday().String()

	var b strings.Builder
	b.WriteString("You are a helpful assistant for a teacher. Answer questions based ONLY on the timetable data provided.\n\n")
	b.WriteString("IMPORTANT DATE/TIME CONTEXT:\n")
	fmt.Fprintf(&b, "- Current Date: %s\n", now.Format("Monday, January 02, 2006"))
	fmt.Fprintf(&b, "- Current Time: %s\n", now.Format("03:04 PM"))
	fmt.Fprintf(&b, "- Today is: %s\n", today)
	fmt.Fprintf(&b, "- Tomorrow is: %s\n", tomorrow)
	fmt.Fprintf(&b, "- Yesterday was: %s\n\n", yesterday)
	b.WriteString("COMPLETE TIMETABLE DATA (Use this for all queries):\n")
	b.WriteString(timetableText(entries))
	b.WriteString("\n\nFILTERED TIMETABLE (for day-specific queries):\n")
	b.WriteString(timetableText(filtered))
	b.WriteString("\n\nCRITICAL INSTRUCTIONS:\n")
	b.WriteString("1. Answer based ONLY on the timetable data provided above.\n")
	b.WriteString("2. Be accurate and precise - only use information from the timetable.\n")
	b.WriteString("3. For day-specific queries (today, tomorrow, etc.), use the FILTERED TIMETABLE.\n")
	b.WriteString("4. For general queries (weekly summary, total classes, etc.), use COMPLETE TIMETABLE.\n")
	b.WriteString("5. Format responses clearly with time, subject, and room information.\n")
	b.WriteString("6. If no data matches the query, say so clearly.\n\n")
	fmt.Fprintf(&b, "Teacher's Query: %s\n\n", query)
	b.WriteString("Provide a clear, accurate answer based on the timetable data above.")
	return b.String()
}

func timetableText(entries []models.Entry) string {
	if len(entries) == 0 {
		return "No classes found."
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		room := e.Room
		if room == "" {
			room = "Not specified"
		}
		lines = append(lines, fmt.Sprintf("%s: %s | Time: %s-%s | Room: %s",
			timetable.DayName(e.Day), e.Subject, e.StartTime, e.EndTime, room))
	}
	return strings.Join(lines, "\n")
}

func filterByDay(entries []models.Entry, dayCode string) []models.Entry {
	var filtered []models.Entry
	for _, e := range entries {
		if e.Day == dayCode {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
