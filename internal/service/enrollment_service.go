package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusops/enrollments-api/internal/dto"
	"github.com/campusops/enrollments-api/internal/models"
	"github.com/campusops/enrollments-api/internal/validation"
	appErrors "github.com/campusops/enrollments-api/pkg/errors"
)

type enrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	Delete(ctx context.Context, id string) error
	StreamAll(ctx context.Context, fn func(models.Enrollment) error) error
	Count(ctx context.Context) (int, error)
}

type studentLookup interface {
	GetStudentByStudentID(ctx context.Context, studentID string) (*models.StudentSnapshot, error)
}

type courseLookup interface {
	GetCourseByCourseID(ctx context.Context, courseID string) (*models.CourseSnapshot, error)
}

type enrollmentCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type storeObserver interface {
	ObserveStore(operation string, duration time.Duration)
}

// EnrollmentService orchestrates the enrollment lifecycle: it validates the
// request, confirms the referenced student and course against their owning
// services, enriches the record with snapshot fields, and commits a single
// write. Nothing before the store call touches durable state.
type EnrollmentService struct {
	store    enrollmentStore
	students studentLookup
	courses  courseLookup
	cache    enrollmentCache
	cacheTTL time.Duration
	metrics  storeObserver
	logger   *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService. cache and metrics may be
// nil; the service then runs uncached and uninstrumented.
func NewEnrollmentService(store enrollmentStore, students studentLookup, courses courseLookup, cache enrollmentCache, cacheTTL time.Duration, metrics storeObserver, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		store:    store,
		students: students,
		courses:  courses,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		logger:   logger,
	}
}

// GetEnrollments returns every persisted enrollment. An empty store yields an
// empty collection, never an error.
func (s *EnrollmentService) GetEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	enrollments := make([]models.Enrollment, 0)
	err := s.store.StreamAll(ctx, func(e models.Enrollment) error {
		enrollments = append(enrollments, e)
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// GetEnrollmentByID resolves a single enrollment, reading through the cache
// when one is configured.
func (s *EnrollmentService) GetEnrollmentByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if s.cache != nil {
		var cached models.Enrollment
		if err := s.cache.Get(ctx, cacheKey(id), &cached); err == nil {
			return &cached, nil
		} else if !appErrors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("enrollment cache read failed", zap.String("enrollment_id", id), zap.Error(err))
		}
	}

	enrollment, err := s.findEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(id), enrollment, s.cacheTTL); err != nil {
			s.logger.Warn("enrollment cache write failed", zap.String("enrollment_id", id), zap.Error(err))
		}
	}
	return enrollment, nil
}

// AddEnrollment runs the full orchestration for a new enrollment: ordered
// field validation, concurrent student and course lookups, snapshot
// enrichment, then the single commit.
func (s *EnrollmentService) AddEnrollment(ctx context.Context, req dto.EnrollmentRequest) (*models.Enrollment, error) {
	if err := validation.ValidateEnrollmentRequest(req); err != nil {
		return nil, err
	}

	student, course, err := s.resolveReferences(ctx, *req.StudentID, *req.CourseID)
	if err != nil {
		return nil, err
	}

	enrollment := &models.Enrollment{EnrollmentID: uuid.NewString()}
	applyRequest(enrollment, req, student, course)

	if err := s.commit(ctx, "create", func() error { return s.store.Create(ctx, enrollment) }); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("enrollment created",
		zap.String("enrollment_id", enrollment.EnrollmentID),
		zap.String("student_id", enrollment.StudentID),
		zap.String("course_id", enrollment.CourseID),
	)
	return enrollment, nil
}

// UpdateEnrollment rebuilds an existing enrollment from the request. The
// record is resolved before either remote lookup is issued so an unknown
// identifier costs no network calls. The identifier itself never changes.
func (s *EnrollmentService) UpdateEnrollment(ctx context.Context, id string, req dto.EnrollmentRequest) (*models.Enrollment, error) {
	if err := validation.ValidateEnrollmentRequest(req); err != nil {
		return nil, err
	}

	enrollment, err := s.findEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}

	student, course, err := s.resolveReferences(ctx, *req.StudentID, *req.CourseID)
	if err != nil {
		return nil, err
	}

	applyRequest(enrollment, req, student, course)

	if err := s.commit(ctx, "update", func() error { return s.store.Update(ctx, enrollment) }); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("enrollment updated", zap.String("enrollment_id", enrollment.EnrollmentID))
	return enrollment, nil
}

// DeleteEnrollment removes an enrollment and returns the deleted record.
func (s *EnrollmentService) DeleteEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.findEnrollment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.commit(ctx, "delete", func() error { return s.store.Delete(ctx, id) }); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("enrollment deleted", zap.String("enrollment_id", id))
	return enrollment, nil
}

// Count reports the number of persisted enrollments.
func (s *EnrollmentService) Count(ctx context.Context) (int, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrollments")
	}
	return total, nil
}

type studentOutcome struct {
	snapshot *models.StudentSnapshot
	err      error
}

type courseOutcome struct {
	snapshot *models.CourseSnapshot
	err      error
}

// resolveReferences issues both remote lookups concurrently; they have no
// data dependency on each other. The join inspects the student outcome first,
// which makes the student error win deterministically when both lookups fail,
// matching the sequential-evaluation contract.
func (s *EnrollmentService) resolveReferences(ctx context.Context, studentID, courseID string) (*models.StudentSnapshot, *models.CourseSnapshot, error) {
	studentCh := make(chan studentOutcome, 1)
	courseCh := make(chan courseOutcome, 1)

	go func() {
		snapshot, err := s.students.GetStudentByStudentID(ctx, studentID)
		studentCh <- studentOutcome{snapshot: snapshot, err: err}
	}()
	go func() {
		snapshot, err := s.courses.GetCourseByCourseID(ctx, courseID)
		courseCh <- courseOutcome{snapshot: snapshot, err: err}
	}()

	student := <-studentCh
	course := <-courseCh

	if student.err != nil {
		return nil, nil, student.err
	}
	if course.err != nil {
		return nil, nil, course.err
	}
	return student.snapshot, course.snapshot, nil
}

// findEnrollment loads a record, translating an absent row into the
// enrollment-not-found error.
func (s *EnrollmentService) findEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	start := time.Now()
	enrollment, err := s.store.FindByID(ctx, id)
	s.observeStore("find", start)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.EnrollmentNotFound(id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

// commit runs the single durable write of an orchestration. Conflicts pass
// through untouched; anything else is an infrastructure failure.
func (s *EnrollmentService) commit(ctx context.Context, operation string, write func() error) error {
	start := time.Now()
	err := write()
	s.observeStore(operation, start)
	if err == nil {
		return nil
	}
	if appErrors.Is(err, appErrors.ErrConflict) || appErrors.Is(err, appErrors.ErrNotFound) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist enrollment")
}

func (s *EnrollmentService) observeStore(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStore(operation, time.Since(start))
	}
}

func (s *EnrollmentService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, cachePattern()); err != nil {
		s.logger.Warn("enrollment cache invalidation failed", zap.Error(err))
	}
}

// applyRequest overwrites the mutable fields of the aggregate from the
// request and the two snapshots. Validation has already guaranteed the
// request fields are present.
func applyRequest(enrollment *models.Enrollment, req dto.EnrollmentRequest, student *models.StudentSnapshot, course *models.CourseSnapshot) {
	enrollment.EnrollmentYear = *req.EnrollmentYear
	enrollment.Semester = *req.Semester
	enrollment.StudentID = student.StudentID
	enrollment.StudentFirstName = student.FirstName
	enrollment.StudentLastName = student.LastName
	enrollment.CourseID = course.CourseID
	enrollment.CourseNumber = course.CourseNumber
	enrollment.CourseName = course.CourseName
}

func cacheKey(id string) string {
	return "enrollments:id:" + id
}

func cachePattern() string {
	return "enrollments:*"
}
