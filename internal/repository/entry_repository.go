package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/engagebot/timetable-api/internal/models"
)

// EntryRepository manages persistence for parsed timetable entries. Entries
// are immutable: the only write paths are bulk insert and bulk delete.
type EntryRepository struct {
	db *sqlx.DB
}

// NewEntryRepository constructs an EntryRepository.
func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

const entryColumns = "id, upload_id, teacher_name, day, start_time, end_time, subject, room"

// ListByTeacherName returns every entry whose teacher name contains the given
// name, case-insensitively, ordered by day then start time.
func (r *EntryRepository) ListByTeacherName(ctx context.Context, name string) ([]models.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetable_entries
		WHERE teacher_name ILIKE '%%' || $1 || '%%'
		ORDER BY day, start_time`, entryColumns)
	var entries []models.Entry
	if err := r.db.SelectContext(ctx, &entries, query, name); err != nil {
		return nil, fmt.Errorf("list entries by teacher: %w", err)
	}
	return entries, nil
}

// ListByTeacherAndDay narrows ListByTeacherName to one day code.
func (r *EntryRepository) ListByTeacherAndDay(ctx context.Context, name, day string) ([]models.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetable_entries
		WHERE teacher_name ILIKE '%%' || $1 || '%%' AND day = $2
		ORDER BY start_time`, entryColumns)
	var entries []models.Entry
	if err := r.db.SelectContext(ctx, &entries, query, name, day); err != nil {
		return nil, fmt.Errorf("list entries by teacher and day: %w", err)
	}
	return entries, nil
}

// CountByTeacherName counts a teacher's stored entries.
func (r *EntryRepository) CountByTeacherName(ctx context.Context, name string) (int, error) {
	const query = `SELECT COUNT(*) FROM timetable_entries WHERE teacher_name ILIKE '%' || $1 || '%'`
	var total int
	if err := r.db.GetContext(ctx, &total, query, name); err != nil {
		return 0, fmt.Errorf("count entries by teacher: %w", err)
	}
	return total, nil
}

// ReplaceForTeacher deletes every entry matching the teacher name and inserts
// the replacement set inside one transaction, so a concurrent re-upload never
// observes a mix of old and new entries.
func (r *EntryRepository) ReplaceForTeacher(ctx context.Context, teacherName string, entries []models.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace entries: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const deleteQuery = `DELETE FROM timetable_entries WHERE teacher_name ILIKE '%' || $1 || '%'`
	if _, err := tx.ExecContext(ctx, deleteQuery, teacherName); err != nil {
		return fmt.Errorf("delete previous entries: %w", err)
	}

	const insertQuery = `INSERT INTO timetable_entries (id, upload_id, teacher_name, day, start_time, end_time, subject, room)
		VALUES (:id, :upload_id, :teacher_name, :day, :start_time, :end_time, :subject, :room)`
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		if _, err := tx.NamedExecContext(ctx, insertQuery, entries[i]); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace entries: %w", err)
	}
	return nil
}

// DeleteByUpload removes the entries belonging to one upload.
func (r *EntryRepository) DeleteByUpload(ctx context.Context, uploadID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM timetable_entries WHERE upload_id = $1", uploadID); err != nil {
		return fmt.Errorf("delete entries by upload: %w", err)
	}
	return nil
}
