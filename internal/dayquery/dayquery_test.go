package dayquery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var refDay = time.Date(2024, time.September, 4, 10, 0, 0, 0, time.UTC)

func TestClassifyIntents(t *testing.T) {
	cases := map[string]Intent{
		"What do I have today?":        IntentToday,
		"Aaj ki classes batao":         IntentToday,
		"what happened yesterday":      IntentYesterday,
		"parson ki classes":            IntentYesterday,
		"What about kal?":              IntentTomorrow,
		"kal ko class thi":             IntentYesterday,
		"kal classes the kya":          IntentYesterday,
		"What is my timetable for tomorrow?": IntentTomorrow,
		"Show my weekly plan":          IntentNone,
	}
	for query, want := range cases {
		assert.Equal(t, want, Classify(query), "query %q", query)
	}
}

func TestClassifyTodayWinsOverAmbiguousToken(t *testing.T) {
	// "aaj" and "kal" both present: the today rule sits earlier in the table.
	assert.Equal(t, IntentToday, Classify("aaj aur kal ki classes"))
}

func TestResolveDates(t *testing.T) {
	res, ok := Resolve("today please", refDay)
	require.True(t, ok)
	assert.Equal(t, "Wednesday", res.DayName)
	assert.Equal(t, "We", res.DayCode)

	res, ok = Resolve("kal ko kya tha, it was busy", refDay)
	require.True(t, ok)
	assert.Equal(t, IntentYesterday, res.Intent)
	assert.Equal(t, "Tuesday", res.DayName)
	assert.Equal(t, "Tu", res.DayCode)

	res, ok = Resolve("kab hai class kal", refDay)
	require.True(t, ok)
	assert.Equal(t, IntentTomorrow, res.Intent)
	assert.Equal(t, "Thursday", res.DayName)
	assert.Equal(t, "Th", res.DayCode)
}

func TestResolveNoDayReference(t *testing.T) {
	_, ok := Resolve("how many labs does this week have", refDay)
	assert.False(t, ok)
}

func TestResolveSaturdayQueryLandsOnSunday(t *testing.T) {
	// Saturday reference date: "kal" resolves to Sunday, which has no
	// two-letter code and passes through as the full name.
	saturday := time.Date(2024, time.September, 7, 10, 0, 0, 0, time.UTC)
	res, ok := Resolve("kal ka schedule", saturday)
	require.True(t, ok)
	assert.Equal(t, "Sunday", res.DayCode)
}
