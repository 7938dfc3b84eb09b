package models

// AskRequest carries one assistant question.
type AskRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
}

// AssistantAnswer is the assistant's reply. FastPath marks answers produced
// locally without calling the language model.
type AssistantAnswer struct {
	Answer   string `json:"answer"`
	FastPath bool   `json:"fast_path"`
	Day      string `json:"day,omitempty"`
}

// ClassInfo is one class in a display-oriented listing.
type ClassInfo struct {
	Subject string `json:"subject"`
	Time    string `json:"time"`
	Room    string `json:"room"`
}

// NextClass describes the teacher's next upcoming class today.
type NextClass struct {
	Subject    string `json:"subject"`
	Time       string `json:"time"`
	Room       string `json:"room"`
	StartsIn   int    `json:"starts_in_minutes"`
	StartClock string `json:"start_clock"`
}

// DayPlan is one weekday's class count inside the weekly plan.
type DayPlan struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// WeeklyPlan summarizes the teaching week.
type WeeklyPlan struct {
	Days  []DayPlan `json:"days"`
	Total int       `json:"total"`
}

// DaySchedule groups one weekday's classes for display, in weekday order.
type DaySchedule struct {
	Day     string      `json:"day"`
	Classes []ClassInfo `json:"classes"`
}

// TeacherDashboard is the teacher-facing landing summary.
type TeacherDashboard struct {
	TotalSlots   int  `json:"total_slots"`
	TeachingDays int  `json:"teaching_days"`
	HasTimetable bool `json:"has_timetable"`
}
