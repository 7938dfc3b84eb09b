package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/engagebot/timetable-api/internal/models"
)

type mockScheduleEntries struct {
	entries []models.Entry
}

func (m *mockScheduleEntries) ListByTeacherName(ctx context.Context, name string) ([]models.Entry, error) {
	return m.entries, nil
}

// Wednesday morning.
var scheduleNow = time.Date(2024, 9, 4, 8, 30, 0, 0, time.UTC)

func newScheduleService(entries []models.Entry) *ScheduleService {
	svc := NewScheduleService(&mockScheduleEntries{entries: entries}, zap.NewNop(), time.UTC)
	svc.nowFn = func() time.Time { return scheduleNow }
	return svc
}

func TestScheduleDataGroupsByWeekday(t *testing.T) {
	svc := newScheduleService([]models.Entry{
		{Day: "We", Subject: "Physics", StartTime: "09:00", EndTime: "10:00", Room: "101"},
		{Day: "Mo", Subject: "Chemistry", StartTime: "11:00", EndTime: "12:00"},
		{Day: "Mo", Subject: "Biology", StartTime: "13:00", EndTime: "14:00"},
	})

	schedule, err := svc.ScheduleData(context.Background(), "rao")
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	assert.Equal(t, "Monday", schedule[0].Day)
	require.Len(t, schedule[0].Classes, 2)
	assert.Equal(t, "Wednesday", schedule[1].Day)
	assert.Equal(t, "09:00 - 10:00", schedule[1].Classes[0].Time)
}

func TestClassesForDaySortsUnparseableFirst(t *testing.T) {
	svc := newScheduleService([]models.Entry{
		{Day: "We", Subject: "Physics", StartTime: "09:00", EndTime: "10:00"},
		{Day: "We", Subject: "Seminar", StartTime: "", EndTime: ""},
		{Day: "We", Subject: "Math", StartTime: "08:00", EndTime: "09:00"},
	})

	classes, err := svc.ClassesForDay(context.Background(), "rao", "Wednesday")
	require.NoError(t, err)
	require.Len(t, classes, 3)
	assert.Equal(t, "Seminar", classes[0].Subject)
	assert.Equal(t, "Math", classes[1].Subject)
	assert.Equal(t, "Physics", classes[2].Subject)
}

func TestClassesForDayBlankSubjectBecomesClass(t *testing.T) {
	svc := newScheduleService([]models.Entry{
		{Day: "We", Subject: "", StartTime: "09:00", EndTime: "10:00"},
	})

	classes, err := svc.ClassesForDay(context.Background(), "rao", "Wednesday")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Class", classes[0].Subject)
}

func TestNextClassPicksEarliestUpcoming(t *testing.T) {
	svc := newScheduleService([]models.Entry{
		{Day: "We", Subject: "Physics", StartTime: "09:00", EndTime: "10:00", Room: "101"},
		{Day: "We", Subject: "Math", StartTime: "11:00", EndTime: "12:00"},
		{Day: "We", Subject: "History", StartTime: "08:00", EndTime: "09:00"},
		{Day: "Th", Subject: "Biology", StartTime: "08:45", EndTime: "09:45"},
	})

	next, err := svc.NextClass(context.Background(), "rao")
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "Physics", next.Subject)
	assert.Equal(t, 30, next.StartsIn)
	assert.Equal(t, "09:00 AM", next.StartClock)
}

func TestNextClassNilWhenDayIsOver(t *testing.T) {
	svc := newScheduleService([]models.Entry{
		{Day: "We", Subject: "History", StartTime: "08:00", EndTime: "09:00"},
	})

	next, err := svc.NextClass(context.Background(), "rao")
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestNextClassIgnoresUnparseableStart(t *testing.T) {
	svc := newScheduleService([]models.Entry{
		{Day: "We", Subject: "Seminar", StartTime: "", EndTime: ""},
	})

	next, err := svc.NextClass(context.Background(), "rao")
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestFreeSlotsFindsGaps(t *testing.T) {
	svc := newScheduleService([]models.Entry{
		{Day: "We", Subject: "Physics", StartTime: "09:00", EndTime: "10:00"},
		{Day: "We", Subject: "Math", StartTime: "11:30", EndTime: "12:30"},
		{Day: "We", Subject: "History", StartTime: "14:00", EndTime: "15:00"},
	})

	free, err := svc.FreeSlots(context.Background(), "rao", "Wednesday")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00 - 11:30", "12:30 - 14:00"}, free)
}

func TestFreeSlotsOverlapProducesNoPhantomGap(t *testing.T) {
	svc := newScheduleService([]models.Entry{
		{Day: "We", Subject: "Lab", StartTime: "09:00", EndTime: "12:00"},
		{Day: "We", Subject: "Physics", StartTime: "10:00", EndTime: "11:00"},
		{Day: "We", Subject: "Math", StartTime: "13:00", EndTime: "14:00"},
	})

	free, err := svc.FreeSlots(context.Background(), "rao", "Wednesday")
	require.NoError(t, err)
	assert.Equal(t, []string{"12:00 - 13:00"}, free)
}

func TestFreeSlotsUnparseableEndDoesNotAdvance(t *testing.T) {
	svc := newScheduleService([]models.Entry{
		{Day: "We", Subject: "Physics", StartTime: "09:00", EndTime: ""},
		{Day: "We", Subject: "Math", StartTime: "11:00", EndTime: "12:00"},
	})

	free, err := svc.FreeSlots(context.Background(), "rao", "Wednesday")
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestWeeklyPlanSkipsEmptyDays(t *testing.T) {
	svc := newScheduleService([]models.Entry{
		{Day: "Mo", Subject: "Chemistry", StartTime: "11:00", EndTime: "12:00"},
		{Day: "Fr", Subject: "Physics", StartTime: "09:00", EndTime: "10:00"},
		{Day: "Fr", Subject: "Math", StartTime: "10:00", EndTime: "11:00"},
	})

	plan, err := svc.WeeklyPlan(context.Background(), "rao")
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Total)
	require.Len(t, plan.Days, 2)
	assert.Equal(t, models.DayPlan{Day: "Monday", Count: 1}, plan.Days[0])
	assert.Equal(t, models.DayPlan{Day: "Friday", Count: 2}, plan.Days[1])
}

func TestDashboardSummarizesSchedule(t *testing.T) {
	svc := newScheduleService([]models.Entry{
		{Day: "Mo", Subject: "Chemistry", StartTime: "11:00", EndTime: "12:00"},
		{Day: "Fr", Subject: "Physics", StartTime: "09:00", EndTime: "10:00"},
	})

	dashboard, err := svc.Dashboard(context.Background(), "rao")
	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.TotalSlots)
	assert.Equal(t, 2, dashboard.TeachingDays)
	assert.True(t, dashboard.HasTimetable)
}

func TestDashboardEmpty(t *testing.T) {
	svc := newScheduleService(nil)

	dashboard, err := svc.Dashboard(context.Background(), "rao")
	require.NoError(t, err)
	assert.False(t, dashboard.HasTimetable)
	assert.Zero(t, dashboard.TotalSlots)
}
