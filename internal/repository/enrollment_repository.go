package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campusops/enrollments-api/internal/models"
	appErrors "github.com/campusops/enrollments-api/pkg/errors"
)

// Postgres class 23 code for unique constraint violations.
const uniqueViolation = "23505"

const enrollmentColumns = `enrollment_id, enrollment_year, semester, student_id,
        student_first_name, student_last_name, course_id, course_number, course_name`

// EnrollmentRepository handles persistence of enriched enrollment records.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create persists a new enrollment. A duplicate identifier is reported as a
// conflict rather than an infrastructure failure.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.EnrollmentID == "" {
		enrollment.EnrollmentID = uuid.NewString()
	}
	const query = `INSERT INTO enrollments (enrollment_id, enrollment_year, semester, student_id,
        student_first_name, student_last_name, course_id, course_number, course_name)
        VALUES (:enrollment_id, :enrollment_year, :semester, :student_id,
        :student_first_name, :student_last_name, :course_id, :course_number, :course_name)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("Enrollment with id=%s already exists", enrollment.EnrollmentID))
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update overwrites an existing enrollment in place. The identifier is never
// rewritten.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `UPDATE enrollments SET enrollment_year = :enrollment_year, semester = :semester,
        student_id = :student_id, student_first_name = :student_first_name,
        student_last_name = :student_last_name, course_id = :course_id,
        course_number = :course_number, course_name = :course_name
        WHERE enrollment_id = :enrollment_id`
	result, err := r.db.NamedExecContext(ctx, query, enrollment)
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return appErrors.EnrollmentNotFound(enrollment.EnrollmentID)
	}
	return nil
}

// FindByID returns an enrollment by its identifier. sql.ErrNoRows is passed
// through for the service layer to translate.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE enrollment_id = $1`, enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Delete removes an enrollment record.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM enrollments WHERE enrollment_id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// StreamAll scans every enrollment in stable identifier order, invoking fn
// per record. Iteration stops on the first error fn returns.
func (r *EnrollmentRepository) StreamAll(ctx context.Context, fn func(models.Enrollment) error) error {
	query := fmt.Sprintf(`SELECT %s FROM enrollments ORDER BY enrollment_id`, enrollmentColumns)
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return fmt.Errorf("stream enrollments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var enrollment models.Enrollment
		if err := rows.StructScan(&enrollment); err != nil {
			return fmt.Errorf("scan enrollment: %w", err)
		}
		if err := fn(enrollment); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("stream enrollments: %w", err)
	}
	return nil
}

// Count returns the number of persisted enrollments.
func (r *EnrollmentRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return total, nil
}
