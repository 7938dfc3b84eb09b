// Package dayquery resolves natural-language day references inside free-text
// schedule queries. Teachers mix English and Hindi ("aaj", "kal", "parson"),
// and "kal" means either yesterday or tomorrow depending on tense, so
// resolution runs through an ordered rule table rather than ad-hoc branching.
package dayquery

import (
	"strings"
	"time"

	"github.com/engagebot/timetable-api/internal/timetable"
)

// Intent identifies which day a query refers to.
type Intent string

const (
	IntentNone      Intent = ""
	IntentToday     Intent = "today"
	IntentYesterday Intent = "yesterday"
	IntentTomorrow  Intent = "tomorrow"
)

// rule maps a token set to an intent. Rules are evaluated in order; the first
// rule with a matching token wins.
type rule struct {
	tokens  []string
	resolve func(query string) Intent
}

// pastMarkers tip the ambiguous "kal" towards yesterday. Without one the
// default reads forward: schedule questions skew prospective.
var pastMarkers = []string{"yesterday", "was", "thi", "थी", "the"}

var rules = []rule{
	{
		tokens:  []string{"today", "aaj", "आज"},
		resolve: func(string) Intent { return IntentToday },
	},
	{
		tokens:  []string{"yesterday", "parson", "परसों"},
		resolve: func(string) Intent { return IntentYesterday },
	},
	{
		tokens: []string{"kal", "कल"},
		resolve: func(query string) Intent {
			if containsAny(query, pastMarkers) {
				return IntentYesterday
			}
			return IntentTomorrow
		},
	},
	{
		tokens:  []string{"tomorrow"},
		resolve: func(string) Intent { return IntentTomorrow },
	},
}

// Resolution carries the resolved day for a matched query.
type Resolution struct {
	Intent  Intent
	Date    time.Time
	DayName string
	DayCode string
}

// Resolve determines which day a query refers to relative to today. The
// second return value reports whether any day reference was found; when it is
// false no day filter should be applied.
func Resolve(query string, today time.Time) (Resolution, bool) {
	intent := Classify(query)
	if intent == IntentNone {
		return Resolution{}, false
	}

	date := today
	switch intent {
	case IntentYesterday:
		date = today.AddDate(0, 0, -1)
	case IntentTomorrow:
		date = today.AddDate(0, 0, 1)
	}

	name := date.Weekday().String()
	return Resolution{
		Intent:  intent,
		Date:    date,
		DayName: name,
		DayCode: timetable.DayCode(name),
	}, true
}

// Classify runs the rule table against a query and returns the matched
// intent, or IntentNone when no rule applies. Matching is case-insensitive
// substring containment.
func Classify(query string) Intent {
	q := strings.ToLower(query)
	for _, r := range rules {
		if containsAny(q, r.tokens) {
			return r.resolve(q)
		}
	}
	return IntentNone
}

func containsAny(haystack string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}
