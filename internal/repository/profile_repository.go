package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/engagebot/timetable-api/internal/models"
)

// ProfileRepository manages teacher activity profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = "id, user_id, contact, department, active, last_active, total_queries, created_at, updated_at"

// FindByUserID fetches the profile attached to a user.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.TeacherProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM teacher_profiles WHERE user_id = $1", profileColumns)
	var profile models.TeacherProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Create inserts a new profile record.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.TeacherProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	const query = `INSERT INTO teacher_profiles (id, user_id, contact, department, active, last_active, total_queries, created_at, updated_at)
		VALUES (:id, :user_id, :contact, :department, :active, :last_active, :total_queries, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create teacher profile: %w", err)
	}
	return nil
}

// EnsureForUser returns the user's profile, creating a default one when none
// exists yet.
func (r *ProfileRepository) EnsureForUser(ctx context.Context, userID string) (*models.TeacherProfile, error) {
	profile, err := r.FindByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("load teacher profile: %w", err)
	}

	fresh := &models.TeacherProfile{UserID: userID, Active: true}
	if err := r.Create(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Touch stamps assistant activity: bumps the query counter and last-active time.
func (r *ProfileRepository) Touch(ctx context.Context, userID string, ts time.Time) error {
	const query = `UPDATE teacher_profiles
		SET last_active = $2, total_queries = total_queries + 1, updated_at = $2
		WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID, ts); err != nil {
		return fmt.Errorf("touch teacher profile: %w", err)
	}
	return nil
}

// SetActive flips a teacher's active flag.
func (r *ProfileRepository) SetActive(ctx context.Context, userID string, active bool) error {
	const query = `UPDATE teacher_profiles SET active = $2, updated_at = $3 WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("set teacher profile active: %w", err)
	}
	return nil
}

// CountByActive returns the active/inactive teacher split.
func (r *ProfileRepository) CountByActive(ctx context.Context) (active int, inactive int, err error) {
	rows := []struct {
		Active bool `db:"active"`
		Count  int  `db:"count"`
	}{}
	const query = `SELECT active, COUNT(*) AS count FROM teacher_profiles GROUP BY active`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return 0, 0, fmt.Errorf("count teacher profiles: %w", err)
	}
	for _, row := range rows {
		if row.Active {
			active = row.Count
		} else {
			inactive = row.Count
		}
	}
	return active, inactive, nil
}

// TopByQueries lists the most active teachers by assistant usage.
func (r *ProfileRepository) TopByQueries(ctx context.Context, limit int) ([]models.TeacherActivity, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `SELECT p.user_id, u.username, u.email, p.total_queries
		FROM teacher_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE u.role = $1
		ORDER BY p.total_queries DESC, u.username
		LIMIT $2`
	var top []models.TeacherActivity
	if err := r.db.SelectContext(ctx, &top, query, models.RoleTeacher, limit); err != nil {
		return nil, fmt.Errorf("top teachers by queries: %w", err)
	}
	return top, nil
}
