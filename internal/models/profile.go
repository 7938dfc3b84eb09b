package models

import "time"

// TeacherProfile tracks per-teacher activity alongside the user account.
// TotalQueries counts assistant questions; LastActive is bumped on each one.
type TeacherProfile struct {
	ID           string     `db:"id" json:"id"`
	UserID       string     `db:"user_id" json:"user_id"`
	Contact      *string    `db:"contact" json:"contact,omitempty"`
	Department   *string    `db:"department" json:"department,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastActive   *time.Time `db:"last_active" json:"last_active,omitempty"`
	TotalQueries int        `db:"total_queries" json:"total_queries"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// TeacherOverview combines account, profile, and timetable presence for the
// admin teacher roster.
type TeacherOverview struct {
	User         User           `json:"user"`
	Profile      TeacherProfile `json:"profile"`
	TotalEntries int            `json:"total_entries"`
}

// TeacherListFilter captures admin roster filtering.
type TeacherListFilter struct {
	Search string
	Status string // "all", "active", "inactive"
}
