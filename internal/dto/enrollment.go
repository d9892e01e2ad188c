package dto

import "github.com/campusops/enrollments-api/internal/models"

// EnrollmentRequest is the transient payload for add and update operations.
// Fields are pointers so that an absent field is distinguishable from a zero
// value; required-field checks run in internal/validation.
type EnrollmentRequest struct {
	EnrollmentYear *int             `json:"enrollmentYear"`
	Semester       *models.Semester `json:"semester"`
	StudentID      *string          `json:"studentId"`
	CourseID       *string          `json:"courseId"`
}

// ExportRequest selects the rendering format for a roster export.
type ExportRequest struct {
	Format string `form:"format" validate:"required,oneof=csv pdf"`
}
