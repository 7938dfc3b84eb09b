package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/engagebot/timetable-api/internal/models"
)

// DepartmentRepository manages departments, their semesters and the published
// department-level timetable PDFs.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository constructs a DepartmentRepository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

const departmentColumns = "id, name, created_at, updated_at"

// List returns all departments ordered by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	query := fmt.Sprintf("SELECT %s FROM departments ORDER BY name", departmentColumns)
	var departments []models.Department
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// FindByID fetches one department.
func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*models.Department, error) {
	query := fmt.Sprintf("SELECT %s FROM departments WHERE id = $1", departmentColumns)
	var dept models.Department
	if err := r.db.GetContext(ctx, &dept, query, id); err != nil {
		return nil, fmt.Errorf("find department: %w", err)
	}
	return &dept, nil
}

// FindByName fetches a department by exact name, case-insensitively.
func (r *DepartmentRepository) FindByName(ctx context.Context, name string) (*models.Department, error) {
	query := fmt.Sprintf("SELECT %s FROM departments WHERE LOWER(name) = LOWER($1)", departmentColumns)
	var dept models.Department
	if err := r.db.GetContext(ctx, &dept, query, name); err != nil {
		return nil, fmt.Errorf("find department by name: %w", err)
	}
	return &dept, nil
}

// Create inserts a department.
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	if dept.ID == "" {
		dept.ID = uuid.NewString()
	}
	now := time.Now()
	dept.CreatedAt = now
	dept.UpdatedAt = now

	const query = `INSERT INTO departments (id, name, created_at, updated_at)
		VALUES (:id, :name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, dept); err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

// Delete removes a department. Semesters and published PDFs cascade in the
// schema.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const semesterColumns = "id, department_id, number, created_at, updated_at"

// ListSemesters returns a department's semesters ordered by number.
func (r *DepartmentRepository) ListSemesters(ctx context.Context, departmentID string) ([]models.Semester, error) {
	query := fmt.Sprintf("SELECT %s FROM semesters WHERE department_id = $1 ORDER BY number", semesterColumns)
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query, departmentID); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}

// FindSemester fetches one semester.
func (r *DepartmentRepository) FindSemester(ctx context.Context, id string) (*models.Semester, error) {
	query := fmt.Sprintf("SELECT %s FROM semesters WHERE id = $1", semesterColumns)
	var sem models.Semester
	if err := r.db.GetContext(ctx, &sem, query, id); err != nil {
		return nil, fmt.Errorf("find semester: %w", err)
	}
	return &sem, nil
}

// EnsureSemester returns the semester with the given number under a
// department, creating it if it does not exist yet.
func (r *DepartmentRepository) EnsureSemester(ctx context.Context, departmentID string, number int) (*models.Semester, error) {
	query := fmt.Sprintf("SELECT %s FROM semesters WHERE department_id = $1 AND number = $2", semesterColumns)
	var sem models.Semester
	err := r.db.GetContext(ctx, &sem, query, departmentID, number)
	if err == nil {
		return &sem, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find semester by number: %w", err)
	}

	now := time.Now()
	sem = models.Semester{
		ID:           uuid.NewString(),
		DepartmentID: departmentID,
		Number:       number,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	const insert = `INSERT INTO semesters (id, department_id, number, created_at, updated_at)
		VALUES (:id, :department_id, :number, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, insert, &sem); err != nil {
		return nil, fmt.Errorf("create semester: %w", err)
	}
	return &sem, nil
}

const timetablePDFColumns = "id, semester_id, title, file_name, stored_path, uploaded_by, uploaded_at, updated_at"

// ListTimetablePDFs returns the published PDFs for one semester, newest first.
func (r *DepartmentRepository) ListTimetablePDFs(ctx context.Context, semesterID string) ([]models.TimetablePDF, error) {
	query := fmt.Sprintf("SELECT %s FROM timetable_pdfs WHERE semester_id = $1 ORDER BY uploaded_at DESC", timetablePDFColumns)
	var pdfs []models.TimetablePDF
	if err := r.db.SelectContext(ctx, &pdfs, query, semesterID); err != nil {
		return nil, fmt.Errorf("list timetable pdfs: %w", err)
	}
	return pdfs, nil
}

// FindTimetablePDF fetches one published PDF.
func (r *DepartmentRepository) FindTimetablePDF(ctx context.Context, id string) (*models.TimetablePDF, error) {
	query := fmt.Sprintf("SELECT %s FROM timetable_pdfs WHERE id = $1", timetablePDFColumns)
	var pdf models.TimetablePDF
	if err := r.db.GetContext(ctx, &pdf, query, id); err != nil {
		return nil, fmt.Errorf("find timetable pdf: %w", err)
	}
	return &pdf, nil
}

// CreateTimetablePDF records a published PDF.
func (r *DepartmentRepository) CreateTimetablePDF(ctx context.Context, pdf *models.TimetablePDF) error {
	if pdf.ID == "" {
		pdf.ID = uuid.NewString()
	}
	now := time.Now()
	pdf.UploadedAt = now
	pdf.UpdatedAt = now

	const query = `INSERT INTO timetable_pdfs (id, semester_id, title, file_name, stored_path, uploaded_by, uploaded_at, updated_at)
		VALUES (:id, :semester_id, :title, :file_name, :stored_path, :uploaded_by, :uploaded_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pdf); err != nil {
		return fmt.Errorf("create timetable pdf: %w", err)
	}
	return nil
}

// DeleteTimetablePDF removes a published PDF record.
func (r *DepartmentRepository) DeleteTimetablePDF(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM timetable_pdfs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete timetable pdf: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
