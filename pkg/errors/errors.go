package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrValidation        = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFound          = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrInvalidIdentifier = New("INVALID_IDENTIFIER", http.StatusUnprocessableEntity, "invalid identifier")
	ErrConflict          = New("CONFLICT", http.StatusConflict, "conflict")
	ErrUnauthorized      = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrRemoteFault       = New("REMOTE_FAULT", http.StatusBadGateway, "dependent service unavailable")
	ErrInternal          = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss         = New("CACHE_MISS", http.StatusInternalServerError, "cache miss")
)

// Validation failures keyed by the first missing request field.
var (
	ErrMissingEnrollmentYear = New(ErrValidation.Code, ErrValidation.Status, "enrollmentYear is required")
	ErrMissingSemester       = New(ErrValidation.Code, ErrValidation.Status, "semester is required")
	ErrMissingStudentID      = New(ErrValidation.Code, ErrValidation.Status, "studentId is required")
	ErrMissingCourseID       = New(ErrValidation.Code, ErrValidation.Status, "courseId is required")
)

// EnrollmentNotFound reports an unknown enrollment identifier.
func EnrollmentNotFound(id string) *Error {
	return Clone(ErrNotFound, fmt.Sprintf("Enrollment with id=%s is not found", id))
}

// StudentNotFound reports that the student registry has no such student.
func StudentNotFound(id string) *Error {
	return Clone(ErrNotFound, fmt.Sprintf("Student with id=%s is not found", id))
}

// CourseNotFound reports that the course catalog has no such course.
func CourseNotFound(id string) *Error {
	return Clone(ErrNotFound, fmt.Sprintf("Course with id=%s is not found", id))
}

// InvalidEnrollmentID reports a structurally malformed enrollment identifier.
func InvalidEnrollmentID(id string) *Error {
	return Clone(ErrInvalidIdentifier, fmt.Sprintf("Enrollment id=%s is invalid", id))
}

// InvalidStudentID reports a student identifier rejected by the registry.
func InvalidStudentID(id string) *Error {
	return Clone(ErrInvalidIdentifier, fmt.Sprintf("Student id=%s is invalid", id))
}

// InvalidCourseID reports a course identifier rejected by the catalog.
func InvalidCourseID(id string) *Error {
	return Clone(ErrInvalidIdentifier, fmt.Sprintf("Course id=%s is invalid", id))
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Is reports whether err carries the same code as target.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == target.Code
}
