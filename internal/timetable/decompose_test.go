package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var morningPeriods = []Period{
	{Start: "09:00", End: "10:00"},
	{Start: "10:00", End: "11:00"},
	{Start: "11:00", End: "12:00"},
}

func TestDecomposeRowSharedSlotYieldsOneCandidatePerTeacher(t *testing.T) {
	row := []string{"Monday", "Physics\nDr. Rao / Dr. Singh"}

	candidates := DecomposeRow(row, morningPeriods)
	require.Len(t, candidates, 2)

	for _, c := range candidates {
		assert.Equal(t, "Mo", c.Day)
		assert.Equal(t, "Physics", c.Subject)
		assert.Equal(t, "09:00", c.StartTime)
		assert.Equal(t, "10:00", c.EndTime)
	}
	assert.Equal(t, "Dr. Rao", candidates[0].TeacherName)
	assert.Equal(t, "Dr. Singh", candidates[1].TeacherName)
}

func TestDecomposeRowSingleLineCellUsesUnknownTeacher(t *testing.T) {
	candidates := DecomposeRow([]string{"Tuesday", "Physics"}, morningPeriods)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Physics", candidates[0].Subject)
	assert.Equal(t, UnknownTeacher, candidates[0].TeacherName)
}

func TestDecomposeRowMultiLineSubjectJoined(t *testing.T) {
	row := []string{"Wednesday", "Data\nStructures\nDr. Mehta"}
	candidates := DecomposeRow(row, morningPeriods)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Data Structures", candidates[0].Subject)
	assert.Equal(t, "Dr. Mehta", candidates[0].TeacherName)
}

func TestDecomposeRowLabExtendsIntoNextPeriod(t *testing.T) {
	row := []string{"Monday", "", "Chemistry LAB\nDr. Iyer"}
	candidates := DecomposeRow(row, morningPeriods)
	require.Len(t, candidates, 1)
	assert.Equal(t, "10:00", candidates[0].StartTime)
	assert.Equal(t, "12:00", candidates[0].EndTime, "lab occupies this and the next period")
}

func TestDecomposeRowLabInFinalColumnKeepsOwnEnd(t *testing.T) {
	row := []string{"Monday", "", "", "CS_LAB\nDr. Iyer"}
	candidates := DecomposeRow(row, morningPeriods)
	require.Len(t, candidates, 1)
	assert.Equal(t, "12:00", candidates[0].EndTime)
}

func TestDecomposeRowSkipsEmptyDayAndCells(t *testing.T) {
	assert.Nil(t, DecomposeRow(nil, morningPeriods))
	assert.Nil(t, DecomposeRow([]string{"  "}, morningPeriods))
	assert.Nil(t, DecomposeRow([]string{"Monday", "", "  ", "\n \n"}, morningPeriods))
}

func TestDecomposeRowTeacherFieldOfSlashesOnlyProducesNothing(t *testing.T) {
	candidates := DecomposeRow([]string{"Monday", "Physics\n / "}, morningPeriods)
	assert.Empty(t, candidates)
}

func TestDecomposeRowUnknownDayLabelPassesThrough(t *testing.T) {
	candidates := DecomposeRow([]string{"Mo", "Physics\nDr. Rao"}, morningPeriods)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Mo", candidates[0].Day)
}

func TestDecomposeRowIgnoresCellsBeyondPeriodColumns(t *testing.T) {
	row := []string{"Monday", "Physics\nDr. Rao", "Maths\nDr. Nair", "Extra\nDr. Kumar", "Overflow\nDr. Das"}
	candidates := DecomposeRow(row, morningPeriods[:2])
	require.Len(t, candidates, 2)
	assert.Equal(t, "Physics", candidates[0].Subject)
	assert.Equal(t, "Maths", candidates[1].Subject)
}
