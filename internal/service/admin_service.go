package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/engagebot/timetable-api/internal/models"
	appErrors "github.com/engagebot/timetable-api/pkg/errors"
)

type adminUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	ListTeachers(ctx context.Context, filter models.TeacherListFilter) ([]models.User, error)
	CountTeachers(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}

type adminProfileRepository interface {
	EnsureForUser(ctx context.Context, userID string) (*models.TeacherProfile, error)
	Create(ctx context.Context, profile *models.TeacherProfile) error
	SetActive(ctx context.Context, userID string, active bool) error
	CountByActive(ctx context.Context) (active int, inactive int, err error)
	TopByQueries(ctx context.Context, limit int) ([]models.TeacherActivity, error)
}

type adminUploadRepository interface {
	List(ctx context.Context, filter models.UploadFilter) ([]models.Upload, int, error)
	Recent(ctx context.Context, limit int) ([]models.Upload, error)
	Count(ctx context.Context) (int, error)
}

type adminEntryRepository interface {
	CountByTeacherName(ctx context.Context, name string) (int, error)
}

type adminCacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const (
	dashboardCacheKey = "admin:dashboard"
	topTeachersLimit  = 5
	recentUploadLimit = 5
)

// AdminService covers the admin surface: the dashboard summary, the teacher
// roster and upload browsing.
type AdminService struct {
	users     adminUserRepository
	profiles  adminProfileRepository
	uploads   adminUploadRepository
	entries   adminEntryRepository
	cache     adminCacheRepository
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewAdminService constructs an AdminService.
func NewAdminService(users adminUserRepository, profiles adminProfileRepository, uploads adminUploadRepository, entries adminEntryRepository, cache adminCacheRepository, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &AdminService{
		users:     users,
		profiles:  profiles,
		uploads:   uploads,
		entries:   entries,
		cache:     cache,
		validator: validate,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// Dashboard builds the admin landing summary, served from cache when fresh.
func (s *AdminService) Dashboard(ctx context.Context) (*models.AdminDashboard, error) {
	if s.cache != nil {
		var cached models.AdminDashboard
		if err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	totalTeachers, err := s.users.CountTeachers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teachers")
	}
	totalUploads, err := s.uploads.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count uploads")
	}
	active, inactive, err := s.profiles.CountByActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teacher activity")
	}
	recent, err := s.uploads.Recent(ctx, recentUploadLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent uploads")
	}
	top, err := s.profiles.TopByQueries(ctx, topTeachersLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load top teachers")
	}

	dashboard := &models.AdminDashboard{
		TotalTeachers:    totalTeachers,
		TotalUploads:     totalUploads,
		ActiveTeachers:   active,
		InactiveTeachers: inactive,
		RecentUploads:    recent,
		TopTeachers:      top,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, dashboard, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache admin dashboard", zap.Error(err))
		}
	}
	return dashboard, nil
}

// ChartData returns the active/inactive split for the dashboard chart.
func (s *AdminService) ChartData(ctx context.Context) (*models.ChartData, error) {
	active, inactive, err := s.profiles.CountByActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teacher activity")
	}
	return &models.ChartData{Active: active, Inactive: inactive}, nil
}

// ListTeachers returns the teacher roster with profiles and timetable counts.
// The status filter is applied after profiles are ensured, since a teacher
// without a profile row counts as active.
func (s *AdminService) ListTeachers(ctx context.Context, filter models.TeacherListFilter) ([]models.TeacherOverview, error) {
	users, err := s.users.ListTeachers(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}

	overviews := make([]models.TeacherOverview, 0, len(users))
	for _, user := range users {
		profile, err := s.profiles.EnsureForUser(ctx, user.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
		}

		switch filter.Status {
		case "active":
			if !profile.Active {
				continue
			}
		case "inactive":
			if profile.Active {
				continue
			}
		}

		count, err := s.entries.CountByTeacherName(ctx, user.Username)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count timetable entries")
		}

		overviews = append(overviews, models.TeacherOverview{
			User:         user,
			Profile:      *profile,
			TotalEntries: count,
		})
	}
	return overviews, nil
}

// CreateTeacher provisions a teacher account with its profile.
func (s *AdminService) CreateTeacher(ctx context.Context, req models.CreateTeacherRequest) (*models.TeacherOverview, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	username := strings.TrimSpace(req.Username)
	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username is already taken")
	}
	if taken, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	} else if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         models.RoleTeacher,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	profile := &models.TeacherProfile{
		UserID:     user.ID,
		Contact:    req.Contact,
		Department: req.Department,
		Active:     true,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher profile")
	}

	s.invalidateDashboard(ctx)
	return &models.TeacherOverview{User: *user, Profile: *profile}, nil
}

// ToggleTeacherStatus flips a teacher's active flag and returns the new state.
func (s *AdminService) ToggleTeacherStatus(ctx context.Context, userID string) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if user.Role != models.RoleTeacher {
		return false, appErrors.Clone(appErrors.ErrForbidden, "only teacher accounts can be toggled")
	}

	profile, err := s.profiles.EnsureForUser(ctx, userID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}

	next := !profile.Active
	if err := s.profiles.SetActive(ctx, userID, next); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher status")
	}

	s.invalidateDashboard(ctx)
	return next, nil
}

// DeleteTeacher removes a teacher account. Profile, refresh tokens and
// uploads cascade in the schema.
func (s *AdminService) DeleteTeacher(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if user.Role != models.RoleTeacher {
		return appErrors.Clone(appErrors.ErrForbidden, "only teacher accounts can be deleted")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}

	s.invalidateDashboard(ctx)
	return nil
}

// ListUploads returns uploads matching the admin filters with pagination.
func (s *AdminService) ListUploads(ctx context.Context, filter models.UploadFilter) ([]models.Upload, *models.Pagination, error) {
	uploads, total, err := s.uploads.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list uploads")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return uploads, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

func (s *AdminService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
