package validation

import (
	"github.com/campusops/enrollments-api/internal/dto"
	appErrors "github.com/campusops/enrollments-api/pkg/errors"
)

// check pairs a predicate with the error surfaced when it fails.
type check struct {
	ok  func(dto.EnrollmentRequest) bool
	err *appErrors.Error
}

// The ordering of the chain is a contract: the first unmet check wins and
// later checks are never evaluated.
var requestChecks = []check{
	{hasEnrollmentYear, appErrors.ErrMissingEnrollmentYear},
	{hasSemester, appErrors.ErrMissingSemester},
	{hasStudentID, appErrors.ErrMissingStudentID},
	{hasCourseID, appErrors.ErrMissingCourseID},
}

// ValidateEnrollmentRequest runs the required-field chain over the request.
// It performs no I/O and has no side effects.
func ValidateEnrollmentRequest(req dto.EnrollmentRequest) error {
	for _, c := range requestChecks {
		if !c.ok(req) {
			return c.err
		}
	}
	if !req.Semester.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "semester must be one of FALL, WINTER, SPRING, SUMMER")
	}
	return nil
}

func hasEnrollmentYear(req dto.EnrollmentRequest) bool {
	return req.EnrollmentYear != nil
}

func hasSemester(req dto.EnrollmentRequest) bool {
	return req.Semester != nil
}

func hasStudentID(req dto.EnrollmentRequest) bool {
	return req.StudentID != nil && *req.StudentID != ""
}

func hasCourseID(req dto.EnrollmentRequest) bool {
	return req.CourseID != nil && *req.CourseID != ""
}
