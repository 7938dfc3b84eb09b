package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/engagebot/timetable-api/internal/models"
	"github.com/engagebot/timetable-api/internal/timetable"
	appErrors "github.com/engagebot/timetable-api/pkg/errors"
)

type scheduleEntryRepository interface {
	ListByTeacherName(ctx context.Context, name string) ([]models.Entry, error)
}

// ScheduleService aggregates a teacher's stored entries into display-oriented
// views: next class, per-day listings, free slots and the weekly plan.
type ScheduleService struct {
	entries scheduleEntryRepository
	logger  *zap.Logger
	loc     *time.Location
	nowFn   func() time.Time
}

// NewScheduleService constructs a ScheduleService. The location controls what
// "now" and "today" mean for relative queries.
func NewScheduleService(entries scheduleEntryRepository, logger *zap.Logger, loc *time.Location) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	s := &ScheduleService{entries: entries, logger: logger, loc: loc}
	s.nowFn = func() time.Time { return time.Now().In(s.loc) }
	return s
}

// Entries returns the teacher's stored entries ordered by day and start time.
func (s *ScheduleService) Entries(ctx context.Context, teacherName string) ([]models.Entry, error) {
	entries, err := s.entries.ListByTeacherName(ctx, teacherName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entries")
	}
	return entries, nil
}

// ScheduleData groups the teacher's entries by weekday in display order. Days
// without classes are omitted.
func (s *ScheduleService) ScheduleData(ctx context.Context, teacherName string) ([]models.DaySchedule, error) {
	entries, err := s.Entries(ctx, teacherName)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]models.ClassInfo)
	for _, e := range entries {
		day := timetable.DayName(e.Day)
		byDay[day] = append(byDay[day], classInfo(e))
	}

	var schedule []models.DaySchedule
	for _, day := range timetable.Weekdays {
		if classes, ok := byDay[day]; ok {
			schedule = append(schedule, models.DaySchedule{Day: day, Classes: classes})
		}
	}
	return schedule, nil
}

// ClassesForDay lists the teacher's classes on one weekday sorted by start
// time. Entries whose start time cannot be parsed sort first.
func (s *ScheduleService) ClassesForDay(ctx context.Context, teacherName, dayName string) ([]models.ClassInfo, error) {
	entries, err := s.Entries(ctx, teacherName)
	if err != nil {
		return nil, err
	}
	return classesForDay(entries, dayName), nil
}

// NextClass returns the teacher's next upcoming class today, or nil when the
// rest of the day is clear. Entries without a parseable start time never
// qualify.
func (s *ScheduleService) NextClass(ctx context.Context, teacherName string) (*models.NextClass, error) {
	entries, err := s.Entries(ctx, teacherName)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	todayCode := timetable.DayCode(now.Weekday().String())
	nowMinutes := now.Hour()*60 + now.Minute()

	best := -1
	bestStart := 0
	for i, e := range entries {
		if e.Day != todayCode {
			continue
		}
		start, ok := clockMinutes(e.StartTime)
		if !ok || start <= nowMinutes {
			continue
		}
		if best < 0 || start < bestStart {
			best = i
			bestStart = start
		}
	}
	if best < 0 {
		return nil, nil
	}

	entry := entries[best]
	startAt := time.Date(now.Year(), now.Month(), now.Day(), bestStart/60, bestStart%60, 0, 0, s.loc)
	return &models.NextClass{
		Subject:    subjectOrDefault(entry.Subject),
		Time:       timeRange(entry),
		Room:       entry.Room,
		StartsIn:   bestStart - nowMinutes,
		StartClock: startAt.Format("03:04 PM"),
	}, nil
}

// FreeSlots lists the gaps between one weekday's classes as "HH:MM - HH:MM"
// ranges. Overlapping classes produce no phantom gaps: the walk tracks the
// furthest end seen so far.
func (s *ScheduleService) FreeSlots(ctx context.Context, teacherName, dayName string) ([]string, error) {
	entries, err := s.Entries(ctx, teacherName)
	if err != nil {
		return nil, err
	}

	dayCode := timetable.DayCode(dayName)
	var day []models.Entry
	for _, e := range entries {
		if e.Day == dayCode {
			day = append(day, e)
		}
	}
	sortByStart(day)

	var free []string
	prevEnd := -1
	for _, e := range day {
		start, startOK := clockMinutes(e.StartTime)
		end, endOK := clockMinutes(e.EndTime)
		if prevEnd >= 0 && startOK && start > prevEnd {
			free = append(free, fmt.Sprintf("%02d:%02d - %02d:%02d", prevEnd/60, prevEnd%60, start/60, start%60))
		}
		if endOK {
			if prevEnd < 0 || end > prevEnd {
				prevEnd = end
			}
		}
	}
	return free, nil
}

// WeeklyPlan counts classes per teaching day, skipping empty days.
func (s *ScheduleService) WeeklyPlan(ctx context.Context, teacherName string) (*models.WeeklyPlan, error) {
	entries, err := s.Entries(ctx, teacherName)
	if err != nil {
		return nil, err
	}

	plan := &models.WeeklyPlan{}
	for _, day := range timetable.Weekdays {
		if n := len(classesForDay(entries, day)); n > 0 {
			plan.Days = append(plan.Days, models.DayPlan{Day: day, Count: n})
			plan.Total += n
		}
	}
	return plan, nil
}

// Dashboard summarizes the teacher's stored schedule.
func (s *ScheduleService) Dashboard(ctx context.Context, teacherName string) (*models.TeacherDashboard, error) {
	schedule, err := s.ScheduleData(ctx, teacherName)
	if err != nil {
		return nil, err
	}

	dashboard := &models.TeacherDashboard{
		TeachingDays: len(schedule),
		HasTimetable: len(schedule) > 0,
	}
	for _, day := range schedule {
		dashboard.TotalSlots += len(day.Classes)
	}
	return dashboard, nil
}

func classesForDay(entries []models.Entry, dayName string) []models.ClassInfo {
	dayCode := timetable.DayCode(dayName)
	var day []models.Entry
	for _, e := range entries {
		if e.Day == dayCode {
			day = append(day, e)
		}
	}
	sortByStart(day)

	classes := make([]models.ClassInfo, 0, len(day))
	for _, e := range day {
		classes = append(classes, classInfo(e))
	}
	return classes
}

// sortByStart orders entries by parsed start time. Unparseable starts sort
// first, matching how the listings have always displayed them.
func sortByStart(entries []models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, aOK := clockMinutes(entries[i].StartTime)
		b, bOK := clockMinutes(entries[j].StartTime)
		if !aOK {
			a = -1
		}
		if !bOK {
			b = -1
		}
		return a < b
	})
}

func classInfo(e models.Entry) models.ClassInfo {
	return models.ClassInfo{
		Subject: subjectOrDefault(e.Subject),
		Time:    timeRange(e),
		Room:    e.Room,
	}
}

func subjectOrDefault(subject string) string {
	if strings.TrimSpace(subject) == "" {
		return "Class"
	}
	return subject
}

func timeRange(e models.Entry) string {
	return strings.Trim(strings.TrimSpace(e.StartTime)+" - "+strings.TrimSpace(e.EndTime), " -")
}

// clockMinutes parses "HH:MM" or "hh:MM AM/PM" into minutes past midnight.
func clockMinutes(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	for _, layout := range []string{"15:04", "3:04 PM", "03:04 PM"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}
