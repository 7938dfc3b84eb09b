package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimeMorningHoursShiftToAfternoon(t *testing.T) {
	cases := map[string]string{
		"1:30": "13:30",
		"0:15": "12:15",
		"7:45": "19:45",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeTime(input), "input %q", input)
	}
}

func TestNormalizeTimeSchoolHoursUnchanged(t *testing.T) {
	cases := map[string]string{
		"8:00":  "08:00",
		"9:00":  "09:00",
		"09:00": "09:00",
		"13:30": "13:30",
		"23:59": "23:59",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeTime(input), "input %q", input)
	}
}

func TestNormalizeTimeIdempotent(t *testing.T) {
	inputs := []string{"1:30", "9:00", "09:00", "12:05", "23:00"}
	for _, input := range inputs {
		once := NormalizeTime(input)
		assert.Equal(t, once, NormalizeTime(once), "input %q", input)
	}
}

func TestNormalizeTimeTrimsWhitespace(t *testing.T) {
	assert.Equal(t, "09:00", NormalizeTime(" 9:00 "))
}
