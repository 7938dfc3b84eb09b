package models

import "time"

// Department represents an academic department.
type Department struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Semester is one numbered semester within a department. (department, number)
// is unique.
type Semester struct {
	ID           string    `db:"id" json:"id"`
	DepartmentID string    `db:"department_id" json:"department_id"`
	Number       int       `db:"number" json:"number"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CreateDepartmentRequest carries the payload for creating a department.
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,min=2,max=150"`
}

// DepartmentOverview pairs a department with its semesters.
type DepartmentOverview struct {
	Department Department `json:"department"`
	Semesters  []Semester `json:"semesters"`
}

// TimetablePDF is a published department-level timetable document for one
// semester. These are stored for browsing, not parsed into entries.
type TimetablePDF struct {
	ID         string    `db:"id" json:"id"`
	SemesterID string    `db:"semester_id" json:"semester_id"`
	Title      string    `db:"title" json:"title"`
	FileName   string    `db:"file_name" json:"file_name"`
	StoredPath string    `db:"stored_path" json:"-"`
	UploadedBy *string   `db:"uploaded_by" json:"uploaded_by,omitempty"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
