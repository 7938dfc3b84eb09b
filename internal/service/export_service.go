package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/engagebot/timetable-api/internal/timetable"
	appErrors "github.com/engagebot/timetable-api/pkg/errors"
	"github.com/engagebot/timetable-api/pkg/export"
)

// ExportFormat selects the rendered schedule export type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult carries the rendered schedule and its response metadata.
type ExportResult struct {
	Payload     []byte
	ContentType string
	FileName    string
}

// ExportService renders a teacher's stored schedule as a downloadable file.
type ExportService struct {
	entries scheduleEntryRepository
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(entries scheduleEntryRepository, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{entries: entries, csv: csv, pdf: pdf, logger: logger}
}

var scheduleHeaders = []string{"Day", "Start", "End", "Subject", "Room"}

// Export renders the teacher's schedule in the requested format.
func (s *ExportService) Export(ctx context.Context, teacherName string, format ExportFormat) (*ExportResult, error) {
	entries, err := s.entries.ListByTeacherName(ctx, teacherName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entries")
	}
	if len(entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoTimetable, "")
	}

	dataset := export.Dataset{Headers: scheduleHeaders}
	for _, e := range entries {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":     timetable.DayName(e.Day),
			"Start":   e.StartTime,
			"End":     e.EndTime,
			"Subject": e.Subject,
			"Room":    e.Room,
		})
	}

	switch format {
	case ExportFormatCSV:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Payload: payload, ContentType: "text/csv", FileName: "schedule.csv"}, nil
	case ExportFormatPDF:
		payload, err := s.pdf.Render(dataset, "Weekly Schedule")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Payload: payload, ContentType: "application/pdf", FileName: "schedule.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
