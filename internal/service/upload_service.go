package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/engagebot/timetable-api/internal/models"
	"github.com/engagebot/timetable-api/internal/pdfext"
	"github.com/engagebot/timetable-api/internal/timetable"
	appErrors "github.com/engagebot/timetable-api/pkg/errors"
)

type uploadRepository interface {
	Create(ctx context.Context, upload *models.Upload) error
}

type uploadEntryRepository interface {
	ReplaceForTeacher(ctx context.Context, teacherName string, entries []models.Entry) error
}

type uploadStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Delete(filename string) error
}

type pdfExtractor interface {
	Extract(path string) (*pdfext.Document, error)
}

// UploadConfig bounds what the ingestion endpoint accepts.
type UploadConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// UploadService ingests timetable PDFs: it stores the file, extracts the
// tables, decomposes them into per-teacher entries and replaces the uploading
// teacher's stored schedule.
type UploadService struct {
	uploads   uploadRepository
	entries   uploadEntryRepository
	storage   uploadStorage
	extractor pdfExtractor
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    UploadConfig
}

// NewUploadService constructs an UploadService.
func NewUploadService(uploads uploadRepository, entries uploadEntryRepository, storage uploadStorage, extractor pdfExtractor, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config UploadConfig) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UploadService{
		uploads:   uploads,
		entries:   entries,
		storage:   storage,
		extractor: extractor,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// Ingest validates and processes one uploaded timetable PDF for the given
// user. The user's previous entries are replaced atomically, so a failed parse
// leaves the old schedule intact.
func (s *UploadService) Ingest(ctx context.Context, user *models.User, fileName, contentType string, size int64, file io.Reader) (*models.ParseSummary, error) {
	if err := s.validateFile(fileName, contentType, size); err != nil {
		return nil, err
	}

	storedName := user.ID + "_" + filepath.Base(fileName)
	storedPath, err := s.storage.SaveStream(storedName, file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store uploaded file")
	}

	doc, err := s.extractor.Extract(storedPath)
	if err != nil {
		if cleanupErr := s.storage.Delete(storedName); cleanupErr != nil {
			s.logger.Warn("failed to remove unparseable upload", zap.String("file", storedName), zap.Error(cleanupErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read PDF")
	}

	candidates := timetable.ParseTables(doc.Tables)

	upload := &models.Upload{
		UploaderID: user.ID,
		FileName:   fileName,
		StoredPath: storedPath,
	}
	if err := s.uploads.Create(ctx, upload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record upload")
	}

	entries := make([]models.Entry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, models.Entry{
			UploadID:    upload.ID,
			TeacherName: c.TeacherName,
			Day:         c.Day,
			StartTime:   c.StartTime,
			EndTime:     c.EndTime,
			Subject:     c.Subject,
			Room:        c.Room,
		})
	}

	if err := s.entries.ReplaceForTeacher(ctx, user.Username, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store timetable entries")
	}

	s.metrics.RecordUpload(len(entries))
	s.logger.Info("timetable ingested",
		zap.String("user_id", user.ID),
		zap.String("file", fileName),
		zap.Int("pages", doc.Pages),
		zap.Int("tables", len(doc.Tables)),
		zap.Int("entries", len(entries)))

	return &models.ParseSummary{
		UploadID: upload.ID,
		Pages:    doc.Pages,
		Tables:   len(doc.Tables),
		Entries:  len(entries),
	}, nil
}

func (s *UploadService) validateFile(fileName, contentType string, size int64) error {
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return appErrors.Clone(appErrors.ErrUnsupportedFile, "")
	}
	if len(s.config.AllowedMIMEs) > 0 && contentType != "" {
		allowed := false
		for _, mime := range s.config.AllowedMIMEs {
			if strings.EqualFold(contentType, mime) {
				allowed = true
				break
			}
		}
		if !allowed {
			return appErrors.Clone(appErrors.ErrUnsupportedFile, "")
		}
	}
	if s.config.MaxFileSizeBytes > 0 && size > s.config.MaxFileSizeBytes {
		return appErrors.Clone(appErrors.ErrFileTooLarge, "")
	}
	return nil
}
