package models

import "time"

// Upload identifies one timetable ingestion event. Its entries are replaced
// wholesale on re-upload; deleting an upload cascades to them.
type Upload struct {
	ID         string    `db:"id" json:"id"`
	UploaderID string    `db:"uploader_id" json:"uploader_id"`
	FileName   string    `db:"file_name" json:"file_name"`
	StoredPath string    `db:"stored_path" json:"-"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// Entry is one teacher's occupied slot parsed out of a timetable document.
// Entries are immutable once created; a re-upload deletes and recreates them.
// Times are stored as canonical "HH:MM" text, or empty when the source column
// carried no recognizable time range.
type Entry struct {
	ID          string `db:"id" json:"id"`
	UploadID    string `db:"upload_id" json:"upload_id"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	Day         string `db:"day" json:"day"`
	StartTime   string `db:"start_time" json:"start_time"`
	EndTime     string `db:"end_time" json:"end_time"`
	Subject     string `db:"subject" json:"subject"`
	Room        string `db:"room" json:"room"`
}

// UploadFilter captures admin-side filtering for listing uploads.
type UploadFilter struct {
	Search   string
	Uploader string
	Date     string
	Page     int
	PageSize int
}

// ParseSummary reports what one ingestion produced.
type ParseSummary struct {
	UploadID string `json:"upload_id"`
	Pages    int    `json:"pages"`
	Tables   int    `json:"tables"`
	Entries  int    `json:"entries"`
}
