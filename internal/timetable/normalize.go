package timetable

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// strictClock matches a fully-formed 24-hour clock value, zero-padded hour included.
var strictClock = regexp.MustCompile(`^(?:[01][0-9]|2[0-3]):[0-5][0-9]$`)

// NormalizeTime canonicalizes a clock string into zero-padded "HH:MM".
//
// A value already in strict 24-hour form is returned unchanged. Otherwise the
// string is split on ":" and hours below 8 are shifted into the afternoon:
// school periods rarely start before 08:00, so "1:30" reads as 13:30.
//
// Callers must ensure the input is non-empty and colon-separated; anything
// else degrades to a best-effort result rather than an error.
func NormalizeTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if strictClock.MatchString(raw) {
		return raw
	}

	hourPart, minutePart, _ := strings.Cut(raw, ":")
	hour, _ := strconv.Atoi(strings.TrimSpace(hourPart))
	minute, _ := strconv.Atoi(strings.TrimSpace(minutePart))
	if hour < 8 {
		hour += 12
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}
