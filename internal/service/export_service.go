package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campusops/enrollments-api/internal/dto"
	"github.com/campusops/enrollments-api/internal/models"
	"github.com/campusops/enrollments-api/pkg/export"
	appErrors "github.com/campusops/enrollments-api/pkg/errors"
)

type enrollmentStreamer interface {
	StreamAll(ctx context.Context, fn func(models.Enrollment) error) error
}

type exportArchiver interface {
	Save(filename string, data []byte) (string, error)
}

// ExportDocument is a rendered roster ready to be served as an attachment.
type ExportDocument struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the enrollment roster as CSV or PDF.
type ExportService struct {
	store     enrollmentStreamer
	archive   exportArchiver
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs ExportService. archive may be nil; rendered
// documents are then only served, never kept.
func NewExportService(store enrollmentStreamer, archive exportArchiver, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:     store,
		archive:   archive,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

var exportHeaders = []string{
	"Enrollment ID", "Year", "Semester", "Student ID", "Student", "Course Number", "Course",
}

// Render streams the roster out of the store and renders it in the requested
// format.
func (s *ExportService) Render(ctx context.Context, req dto.ExportRequest) (*ExportDocument, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}

	dataset := export.Dataset{Headers: exportHeaders}
	err := s.store.StreamAll(ctx, func(e models.Enrollment) error {
		dataset.Append(
			e.EnrollmentID,
			strconv.Itoa(e.EnrollmentYear),
			string(e.Semester),
			e.StudentID,
			e.StudentFirstName+" "+e.StudentLastName,
			e.CourseNumber,
			e.CourseName,
		)
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments for export")
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	var doc *ExportDocument
	switch req.Format {
	case "pdf":
		data, err := s.pdf.Render(dataset, "Enrollment Roster")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		doc = &ExportDocument{
			Filename:    fmt.Sprintf("enrollments-%s.pdf", stamp),
			ContentType: "application/pdf",
			Data:        data,
		}
	default:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		doc = &ExportDocument{
			Filename:    fmt.Sprintf("enrollments-%s.csv", stamp),
			ContentType: "text/csv",
			Data:        data,
		}
	}

	if s.archive != nil {
		if path, err := s.archive.Save(doc.Filename, doc.Data); err != nil {
			s.logger.Warn("export archive write failed", zap.String("filename", doc.Filename), zap.Error(err))
		} else {
			s.logger.Info("export archived", zap.String("path", path))
		}
	}
	return doc, nil
}
