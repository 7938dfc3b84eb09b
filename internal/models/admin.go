package models

// AdminDashboard carries the admin landing page summary cards.
type AdminDashboard struct {
	TotalTeachers    int               `json:"total_teachers"`
	TotalUploads     int               `json:"total_uploads"`
	ActiveTeachers   int               `json:"active_teachers"`
	InactiveTeachers int               `json:"inactive_teachers"`
	RecentUploads    []Upload          `json:"recent_uploads"`
	TopTeachers      []TeacherActivity `json:"top_teachers"`
}

// TeacherActivity ranks a teacher by assistant usage.
type TeacherActivity struct {
	UserID       string `db:"user_id" json:"user_id"`
	Username     string `db:"username" json:"username"`
	Email        string `db:"email" json:"email"`
	TotalQueries int    `db:"total_queries" json:"total_queries"`
}

// CreateTeacherRequest carries the payload for an admin creating a teacher
// account directly.
type CreateTeacherRequest struct {
	Username   string  `json:"username" validate:"required,min=2,max=150"`
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6"`
	Contact    *string `json:"contact,omitempty"`
	Department *string `json:"department,omitempty"`
}

// ChartData feeds the active/inactive teachers chart.
type ChartData struct {
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}
