package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/engagebot/timetable-api/internal/models"
	"github.com/engagebot/timetable-api/internal/pdfext"
	appErrors "github.com/engagebot/timetable-api/pkg/errors"
)

type mockUploadRepo struct {
	created *models.Upload
	err     error
}

func (m *mockUploadRepo) Create(ctx context.Context, upload *models.Upload) error {
	if m.err != nil {
		return m.err
	}
	upload.ID = "upl-1"
	m.created = upload
	return nil
}

type mockUploadEntries struct {
	teacherName string
	replaced    []models.Entry
	err         error
}

func (m *mockUploadEntries) ReplaceForTeacher(ctx context.Context, teacherName string, entries []models.Entry) error {
	if m.err != nil {
		return m.err
	}
	m.teacherName = teacherName
	m.replaced = entries
	return nil
}

type mockUploadStorage struct {
	saved   []string
	deleted []string
	saveErr error
}

func (m *mockUploadStorage) SaveStream(filename string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.saved = append(m.saved, filename)
	return "/uploads/" + filename, nil
}

func (m *mockUploadStorage) Delete(filename string) error {
	m.deleted = append(m.deleted, filename)
	return nil
}

type mockExtractor struct {
	doc *pdfext.Document
	err error
}

func (m *mockExtractor) Extract(path string) (*pdfext.Document, error) {
	return m.doc, m.err
}

func timetableDoc() *pdfext.Document {
	return &pdfext.Document{
		Pages: 1,
		Tables: [][][]string{{
			{"Day", "9:00 - 10:00", "10:00 - 11:00"},
			{"Monday", "Physics\nDr. Rao", "Chemistry\nDr. Rao / Dr. Singh"},
		}},
	}
}

func newUploadService(uploads *mockUploadRepo, entries *mockUploadEntries, storage *mockUploadStorage, extractor *mockExtractor) *UploadService {
	cfg := UploadConfig{MaxFileSizeBytes: 1 << 20, AllowedMIMEs: []string{"application/pdf"}}
	return NewUploadService(uploads, entries, storage, extractor, NewMetricsService(), validator.New(), zap.NewNop(), cfg)
}

func TestUploadIngestReplacesTeacherEntries(t *testing.T) {
	uploads := &mockUploadRepo{}
	entries := &mockUploadEntries{}
	storage := &mockUploadStorage{}
	svc := newUploadService(uploads, entries, storage, &mockExtractor{doc: timetableDoc()})

	user := &models.User{ID: "usr-1", Username: "rao"}
	summary, err := svc.Ingest(context.Background(), user, "week.pdf", "application/pdf", 1024, strings.NewReader("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "upl-1", summary.UploadID)
	assert.Equal(t, 1, summary.Pages)
	assert.Equal(t, 1, summary.Tables)
	assert.Equal(t, 3, summary.Entries)

	assert.Equal(t, "rao", entries.teacherName)
	require.Len(t, entries.replaced, 3)
	assert.Equal(t, "Dr. Rao", entries.replaced[0].TeacherName)
	assert.Equal(t, "Mo", entries.replaced[0].Day)
	assert.Equal(t, "09:00", entries.replaced[0].StartTime)
	assert.Equal(t, "upl-1", entries.replaced[0].UploadID)
	assert.Equal(t, "Dr. Singh", entries.replaced[2].TeacherName)

	require.NotNil(t, uploads.created)
	assert.Equal(t, "week.pdf", uploads.created.FileName)
}

func TestUploadIngestRejectsNonPDF(t *testing.T) {
	svc := newUploadService(&mockUploadRepo{}, &mockUploadEntries{}, &mockUploadStorage{}, &mockExtractor{})

	user := &models.User{ID: "usr-1", Username: "rao"}
	_, err := svc.Ingest(context.Background(), user, "week.docx", "application/msword", 1024, strings.NewReader("x"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnsupportedFile.Code, appErr.Code)
}

func TestUploadIngestRejectsOversizedFile(t *testing.T) {
	svc := newUploadService(&mockUploadRepo{}, &mockUploadEntries{}, &mockUploadStorage{}, &mockExtractor{})

	user := &models.User{ID: "usr-1", Username: "rao"}
	_, err := svc.Ingest(context.Background(), user, "week.pdf", "application/pdf", 2<<20, strings.NewReader("x"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrFileTooLarge.Code, appErr.Code)
}

func TestUploadIngestCleansUpOnExtractFailure(t *testing.T) {
	storage := &mockUploadStorage{}
	entries := &mockUploadEntries{}
	svc := newUploadService(&mockUploadRepo{}, entries, storage, &mockExtractor{err: errors.New("broken xref")})

	user := &models.User{ID: "usr-1", Username: "rao"}
	_, err := svc.Ingest(context.Background(), user, "week.pdf", "application/pdf", 1024, strings.NewReader("x"))
	require.Error(t, err)
	assert.Len(t, storage.deleted, 1)
	assert.Nil(t, entries.replaced)
}

func TestUploadIngestEmptyTablesStillReplaces(t *testing.T) {
	entries := &mockUploadEntries{}
	doc := &pdfext.Document{Pages: 2}
	svc := newUploadService(&mockUploadRepo{}, entries, &mockUploadStorage{}, &mockExtractor{doc: doc})

	user := &models.User{ID: "usr-1", Username: "rao"}
	summary, err := svc.Ingest(context.Background(), user, "prose.pdf", "application/pdf", 1024, strings.NewReader("x"))
	require.NoError(t, err)
	assert.Zero(t, summary.Entries)
	assert.Equal(t, "rao", entries.teacherName)
	assert.Empty(t, entries.replaced)
}
