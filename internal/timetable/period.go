package timetable

import (
	"regexp"
	"strings"
)

// periodPattern finds a "H:MM - H:MM" range anywhere inside a header cell.
var periodPattern = regexp.MustCompile(`(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})`)

// ParsePeriods reads a table's header row and extracts one time range per data
// column. Header index 0 is the day-label column and carries no period.
//
// A cell without a recognizable time range still occupies a slot with empty
// times, so data cells stay aligned with their columns.
func ParsePeriods(header []string) []Period {
	if len(header) < 2 {
		return nil
	}

	periods := make([]Period, 0, len(header)-1)
	for _, cell := range header[1:] {
		clean := strings.TrimSpace(strings.ReplaceAll(cell, "\n", " "))
		match := periodPattern.FindStringSubmatch(clean)
		if match == nil {
			periods = append(periods, Period{})
			continue
		}
		periods = append(periods, Period{
			Start: NormalizeTime(match[1]),
			End:   NormalizeTime(match[2]),
		})
	}
	return periods
}
