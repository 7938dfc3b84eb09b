package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/engagebot/timetable-api/internal/models"
	appErrors "github.com/engagebot/timetable-api/pkg/errors"
)

type departmentRepository interface {
	List(ctx context.Context) ([]models.Department, error)
	FindByID(ctx context.Context, id string) (*models.Department, error)
	FindByName(ctx context.Context, name string) (*models.Department, error)
	Create(ctx context.Context, dept *models.Department) error
	Delete(ctx context.Context, id string) error
	ListSemesters(ctx context.Context, departmentID string) ([]models.Semester, error)
	FindSemester(ctx context.Context, id string) (*models.Semester, error)
	EnsureSemester(ctx context.Context, departmentID string, number int) (*models.Semester, error)
	ListTimetablePDFs(ctx context.Context, semesterID string) ([]models.TimetablePDF, error)
	FindTimetablePDF(ctx context.Context, id string) (*models.TimetablePDF, error)
	CreateTimetablePDF(ctx context.Context, pdf *models.TimetablePDF) error
	DeleteTimetablePDF(ctx context.Context, id string) error
}

type departmentStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

// DepartmentService manages departments, semesters and the published
// department-level timetable PDFs browsed by teachers.
type DepartmentService struct {
	departments departmentRepository
	storage     departmentStorage
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewDepartmentService constructs a DepartmentService.
func NewDepartmentService(departments departmentRepository, storage departmentStorage, validate *validator.Validate, logger *zap.Logger) *DepartmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DepartmentService{departments: departments, storage: storage, validator: validate, logger: logger}
}

// List returns every department with its semesters.
func (s *DepartmentService) List(ctx context.Context) ([]models.DepartmentOverview, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}

	overviews := make([]models.DepartmentOverview, 0, len(departments))
	for _, dept := range departments {
		semesters, err := s.departments.ListSemesters(ctx, dept.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semesters")
		}
		overviews = append(overviews, models.DepartmentOverview{Department: dept, Semesters: semesters})
	}
	return overviews, nil
}

// Create adds a department. Names are unique case-insensitively.
func (s *DepartmentService) Create(ctx context.Context, req models.CreateDepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}

	name := strings.TrimSpace(req.Name)
	if _, err := s.departments.FindByName(ctx, name); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "department already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department name")
	}

	dept := &models.Department{Name: name}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create department")
	}
	return dept, nil
}

// Delete removes a department and everything under it.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete department")
	}
	return nil
}

// Publish stores a department-level timetable PDF under the given department
// and semester number, creating the semester row when needed.
func (s *DepartmentService) Publish(ctx context.Context, departmentID string, semesterNumber int, title, fileName, uploadedBy string, file io.Reader) (*models.TimetablePDF, error) {
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFile, "")
	}
	if semesterNumber < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester number must be positive")
	}

	if _, err := s.departments.FindByID(ctx, departmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load department")
	}

	semester, err := s.departments.EnsureSemester(ctx, departmentID, semesterNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve semester")
	}

	storedName := "dept_" + semester.ID + "_" + filepath.Base(fileName)
	storedPath, err := s.storage.SaveStream(storedName, file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store timetable pdf")
	}

	if title = strings.TrimSpace(title); title == "" {
		title = strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	}

	pdf := &models.TimetablePDF{
		SemesterID: semester.ID,
		Title:      title,
		FileName:   fileName,
		StoredPath: storedPath,
	}
	if uploadedBy != "" {
		pdf.UploadedBy = &uploadedBy
	}
	if err := s.departments.CreateTimetablePDF(ctx, pdf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record timetable pdf")
	}
	return pdf, nil
}

// ListPublished returns the published PDFs for one semester.
func (s *DepartmentService) ListPublished(ctx context.Context, semesterID string) ([]models.TimetablePDF, error) {
	if _, err := s.departments.FindSemester(ctx, semesterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}

	pdfs, err := s.departments.ListTimetablePDFs(ctx, semesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable pdfs")
	}
	return pdfs, nil
}

// OpenPublished resolves a published PDF for download.
func (s *DepartmentService) OpenPublished(ctx context.Context, id string) (*models.TimetablePDF, *os.File, error) {
	pdf, err := s.departments.FindTimetablePDF(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "timetable pdf not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable pdf")
	}

	file, err := s.storage.Open(filepath.Base(pdf.StoredPath))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open timetable pdf")
	}
	return pdf, file, nil
}

// DeletePublished removes a published PDF and its stored file.
func (s *DepartmentService) DeletePublished(ctx context.Context, id string) error {
	pdf, err := s.departments.FindTimetablePDF(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable pdf not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable pdf")
	}

	if err := s.departments.DeleteTimetablePDF(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable pdf")
	}
	if err := s.storage.Delete(filepath.Base(pdf.StoredPath)); err != nil {
		s.logger.Warn("failed to remove stored timetable pdf", zap.String("id", id), zap.Error(err))
	}
	return nil
}
