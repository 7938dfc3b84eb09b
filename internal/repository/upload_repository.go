package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/engagebot/timetable-api/internal/models"
)

// UploadRepository manages persistence for timetable uploads.
type UploadRepository struct {
	db *sqlx.DB
}

// NewUploadRepository constructs an UploadRepository.
func NewUploadRepository(db *sqlx.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

const uploadColumns = "id, uploader_id, file_name, stored_path, uploaded_at"

// Create inserts a new upload record.
func (r *UploadRepository) Create(ctx context.Context, upload *models.Upload) error {
	if upload.ID == "" {
		upload.ID = uuid.NewString()
	}
	if upload.UploadedAt.IsZero() {
		upload.UploadedAt = time.Now().UTC()
	}

	const query = `INSERT INTO timetable_uploads (id, uploader_id, file_name, stored_path, uploaded_at)
		VALUES (:id, :uploader_id, :file_name, :stored_path, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, upload); err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	return nil
}

// List returns uploads matching admin filters, newest first, with total count.
func (r *UploadRepository) List(ctx context.Context, filter models.UploadFilter) ([]models.Upload, int, error) {
	base := `FROM timetable_uploads t JOIN users u ON u.id = t.uploader_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.username) LIKE $%d OR LOWER(t.file_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, search)
	}
	if filter.Uploader != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(u.username) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Uploader)+"%")
	}
	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("t.uploaded_at::date = $%d::date", len(args)+1))
		args = append(args, filter.Date)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY t.uploaded_at DESC LIMIT %d OFFSET %d",
		prefixColumns("t", uploadColumns), base, size, offset)
	var uploads []models.Upload
	if err := r.db.SelectContext(ctx, &uploads, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list uploads: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count uploads: %w", err)
	}

	return uploads, total, nil
}

// Recent returns the latest uploads for the admin dashboard.
func (r *UploadRepository) Recent(ctx context.Context, limit int) ([]models.Upload, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf("SELECT %s FROM timetable_uploads ORDER BY uploaded_at DESC LIMIT $1", uploadColumns)
	var uploads []models.Upload
	if err := r.db.SelectContext(ctx, &uploads, query, limit); err != nil {
		return nil, fmt.Errorf("recent uploads: %w", err)
	}
	return uploads, nil
}

// Count returns the overall number of uploads.
func (r *UploadRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM timetable_uploads"); err != nil {
		return 0, fmt.Errorf("count uploads: %w", err)
	}
	return total, nil
}
