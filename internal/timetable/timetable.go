// Package timetable turns raw table grids extracted from a timetable PDF into
// normalized per-teacher schedule candidates. The grid layout it understands:
// the first header cell labels the day column, every following header cell
// carries one period time range, and each data row pairs a day label with one
// cell per period.
package timetable

import "strings"

// Period is a (start, end) time pair tied to one table column. It only lives
// for the duration of parsing a single table.
type Period struct {
	Start string
	End   string
}

// Candidate is one prospective schedule entry produced by row decomposition.
// One cell can yield several candidates when teachers share a slot.
type Candidate struct {
	TeacherName string
	Day         string
	StartTime   string
	EndTime     string
	Subject     string
	Room        string
}

// UnknownTeacher is recorded when a cell carries a subject but no teacher line.
const UnknownTeacher = "Unknown"

// Weekdays lists the six teaching days in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var dayCodes = map[string]string{
	"Monday":    "Mo",
	"Tuesday":   "Tu",
	"Wednesday": "We",
	"Thursday":  "Th",
	"Friday":    "Fr",
	"Saturday":  "Sa",
}

var dayNames = func() map[string]string {
	names := make(map[string]string, len(dayCodes))
	for name, code := range dayCodes {
		names[code] = name
	}
	return names
}()

// DayCode maps a weekday name to its two-letter code. Labels that are not
// recognized pass through unchanged, treated as already being a code.
func DayCode(label string) string {
	if code, ok := dayCodes[label]; ok {
		return code
	}
	return label
}

// DayName maps a two-letter day code back to its weekday name. Unknown codes
// pass through unchanged.
func DayName(code string) string {
	if name, ok := dayNames[code]; ok {
		return name
	}
	return code
}

// ParseGrid converts one raw table grid into candidate entries. An empty grid
// yields nothing.
func ParseGrid(grid [][]string) []Candidate {
	if len(grid) == 0 {
		return nil
	}

	periods := ParsePeriods(grid[0])

	var candidates []Candidate
	for _, row := range grid[1:] {
		candidates = append(candidates, DecomposeRow(row, periods)...)
	}
	return candidates
}

// ParseTables runs ParseGrid over every extracted table.
func ParseTables(grids [][][]string) []Candidate {
	var candidates []Candidate
	for _, grid := range grids {
		candidates = append(candidates, ParseGrid(grid)...)
	}
	return candidates
}

func nonEmptyLines(cell string) []string {
	raw := strings.Split(cell, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
