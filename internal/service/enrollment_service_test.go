package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/enrollments-api/internal/dto"
	"github.com/campusops/enrollments-api/internal/models"
	appErrors "github.com/campusops/enrollments-api/pkg/errors"
)

type fakeStore struct {
	records   map[string]models.Enrollment
	createErr error
	updateErr error
	deleteErr error
}

func newFakeStore(seed ...models.Enrollment) *fakeStore {
	s := &fakeStore{records: make(map[string]models.Enrollment)}
	for _, e := range seed {
		s.records[e.EnrollmentID] = e
	}
	return s
}

func (s *fakeStore) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, exists := s.records[enrollment.EnrollmentID]; exists {
		return appErrors.Clone(appErrors.ErrConflict, "duplicate enrollment id")
	}
	s.records[enrollment.EnrollmentID] = *enrollment
	return nil
}

func (s *fakeStore) Update(ctx context.Context, enrollment *models.Enrollment) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.records[enrollment.EnrollmentID] = *enrollment
	return nil
}

func (s *fakeStore) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := s.records[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.records, id)
	return nil
}

func (s *fakeStore) StreamAll(ctx context.Context, fn func(models.Enrollment) error) error {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := fn(s.records[id]); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) Count(ctx context.Context) (int, error) {
	return len(s.records), nil
}

type fakeStudentLookup struct {
	snapshots map[string]models.StudentSnapshot
	err       error
	calls     int32
}

func (f *fakeStudentLookup) GetStudentByStudentID(ctx context.Context, id string) (*models.StudentSnapshot, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	if snap, ok := f.snapshots[id]; ok {
		return &snap, nil
	}
	return nil, appErrors.StudentNotFound(id)
}

type fakeCourseLookup struct {
	snapshots map[string]models.CourseSnapshot
	err       error
	calls     int32
}

func (f *fakeCourseLookup) GetCourseByCourseID(ctx context.Context, id string) (*models.CourseSnapshot, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	if snap, ok := f.snapshots[id]; ok {
		return &snap, nil
	}
	return nil, appErrors.CourseNotFound(id)
}

type fakeCache struct {
	entries       map[string][]byte
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.entries = make(map[string][]byte)
	c.invalidations++
	return nil
}

func defaultLookups() (*fakeStudentLookup, *fakeCourseLookup) {
	students := &fakeStudentLookup{snapshots: map[string]models.StudentSnapshot{
		"S1": {StudentID: "S1", FirstName: "Christine", LastName: "Gerard", Program: "Computer Science"},
	}}
	courses := &fakeCourseLookup{snapshots: map[string]models.CourseSnapshot{
		"C1": {CourseID: "C1", CourseNumber: "trs-075", CourseName: "Web Services", NumHours: 45, NumCredits: 3},
	}}
	return students, courses
}

func validRequest() dto.EnrollmentRequest {
	year := 2023
	semester := models.SemesterFall
	studentID := "S1"
	courseID := "C1"
	return dto.EnrollmentRequest{
		EnrollmentYear: &year,
		Semester:       &semester,
		StudentID:      &studentID,
		CourseID:       &courseID,
	}
}

func existingEnrollment() models.Enrollment {
	return models.Enrollment{
		EnrollmentID:     "06a7d573-bcab-4db3-956f-773324b92a80",
		EnrollmentYear:   2021,
		Semester:         models.SemesterFall,
		StudentID:        "S1",
		StudentFirstName: "Christine",
		StudentLastName:  "Gerard",
		CourseID:         "C1",
		CourseNumber:     "trs-075",
		CourseName:       "Web Services",
	}
}

func TestAddEnrollmentValidationFailureSkipsLookups(t *testing.T) {
	store := newFakeStore()
	students, courses := defaultLookups()
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	req := validRequest()
	req.EnrollmentYear = nil

	_, err := svc.AddEnrollment(context.Background(), req)
	require.Equal(t, appErrors.ErrMissingEnrollmentYear, err)
	assert.Zero(t, atomic.LoadInt32(&students.calls))
	assert.Zero(t, atomic.LoadInt32(&courses.calls))
	assert.Empty(t, store.records)
}

func TestAddEnrollmentPersistsEnrichedRecord(t *testing.T) {
	store := newFakeStore()
	students, courses := defaultLookups()
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	enrollment, err := svc.AddEnrollment(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, enrollment.EnrollmentID, models.EnrollmentIDLength)
	assert.Equal(t, 2023, enrollment.EnrollmentYear)
	assert.Equal(t, models.SemesterFall, enrollment.Semester)
	assert.Equal(t, "Christine", enrollment.StudentFirstName)
	assert.Equal(t, "Gerard", enrollment.StudentLastName)
	assert.Equal(t, "trs-075", enrollment.CourseNumber)
	assert.Equal(t, "Web Services", enrollment.CourseName)

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	persisted, err := svc.GetEnrollmentByID(context.Background(), enrollment.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, enrollment, persisted)
}

func TestAddEnrollmentStudentNotFound(t *testing.T) {
	store := newFakeStore()
	students, courses := defaultLookups()
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	req := validRequest()
	missing := "S-404"
	req.StudentID = &missing

	_, err := svc.AddEnrollment(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "Student with id=S-404 is not found", appErrors.FromError(err).Message)
	assert.Empty(t, store.records)
}

func TestAddEnrollmentCourseNotFound(t *testing.T) {
	store := newFakeStore()
	students, courses := defaultLookups()
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	req := validRequest()
	missing := "C-404"
	req.CourseID = &missing

	_, err := svc.AddEnrollment(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "Course with id=C-404 is not found", appErrors.FromError(err).Message)
	assert.Empty(t, store.records)
}

// When both lookups fail the student outcome wins regardless of which
// remote answered first.
func TestAddEnrollmentStudentErrorTakesPrecedence(t *testing.T) {
	store := newFakeStore()
	students := &fakeStudentLookup{err: appErrors.StudentNotFound("S-404")}
	courses := &fakeCourseLookup{err: appErrors.CourseNotFound("C-404")}
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	for i := 0; i < 25; i++ {
		_, err := svc.AddEnrollment(context.Background(), validRequest())
		require.Error(t, err)
		require.Equal(t, "Student with id=S-404 is not found", appErrors.FromError(err).Message)
	}
	assert.Empty(t, store.records)
}

func TestAddEnrollmentRemoteFaultIsNotTreatedAsAbsent(t *testing.T) {
	store := newFakeStore()
	students, _ := defaultLookups()
	courses := &fakeCourseLookup{err: appErrors.Clone(appErrors.ErrRemoteFault, "course service unreachable")}
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	_, err := svc.AddEnrollment(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrRemoteFault))
	assert.False(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Empty(t, store.records)
}

func TestAddEnrollmentConflictPassesThrough(t *testing.T) {
	store := newFakeStore()
	store.createErr = appErrors.Clone(appErrors.ErrConflict, "duplicate enrollment id")
	students, courses := defaultLookups()
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	_, err := svc.AddEnrollment(context.Background(), validRequest())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
}

func TestUpdateEnrollmentUnknownIDSkipsRemoteLookups(t *testing.T) {
	store := newFakeStore()
	students, courses := defaultLookups()
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	_, err := svc.UpdateEnrollment(context.Background(), "4f059b96-9f4c-42a5-b42c-302ed54b9bb6", validRequest())
	require.Error(t, err)
	assert.Equal(t, "Enrollment with id=4f059b96-9f4c-42a5-b42c-302ed54b9bb6 is not found", appErrors.FromError(err).Message)
	assert.Zero(t, atomic.LoadInt32(&students.calls))
	assert.Zero(t, atomic.LoadInt32(&courses.calls))
}

func TestUpdateEnrollmentReplacesFieldsKeepsIdentifier(t *testing.T) {
	seed := existingEnrollment()
	store := newFakeStore(seed)
	students, courses := defaultLookups()
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	req := validRequest()
	year := 2023
	semester := models.SemesterSpring
	req.EnrollmentYear = &year
	req.Semester = &semester

	updated, err := svc.UpdateEnrollment(context.Background(), seed.EnrollmentID, req)
	require.NoError(t, err)
	assert.Equal(t, seed.EnrollmentID, updated.EnrollmentID)
	assert.Equal(t, 2023, updated.EnrollmentYear)
	assert.Equal(t, models.SemesterSpring, updated.Semester)

	stored := store.records[seed.EnrollmentID]
	assert.Equal(t, models.SemesterSpring, stored.Semester)
	assert.Equal(t, 2023, stored.EnrollmentYear)
}

func TestDeleteEnrollmentReturnsDeletedRecord(t *testing.T) {
	seed := existingEnrollment()
	store := newFakeStore(seed)
	students, courses := defaultLookups()
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	deleted, err := svc.DeleteEnrollment(context.Background(), seed.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, seed.EnrollmentID, deleted.EnrollmentID)
	assert.Empty(t, store.records)
}

func TestDeleteEnrollmentUnknownID(t *testing.T) {
	store := newFakeStore()
	students, courses := defaultLookups()
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	_, err := svc.DeleteEnrollment(context.Background(), "e4cf881a-2d6e-4c52-9f0b-1e9a7f3e8b11")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestGetEnrollmentsEmptyStoreYieldsEmptyCollection(t *testing.T) {
	store := newFakeStore()
	students, courses := defaultLookups()
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	enrollments, err := svc.GetEnrollments(context.Background())
	require.NoError(t, err)
	require.NotNil(t, enrollments)
	assert.Empty(t, enrollments)
}

func TestGetEnrollmentByIDIsIdempotent(t *testing.T) {
	seed := existingEnrollment()
	store := newFakeStore(seed)
	students, courses := defaultLookups()
	svc := NewEnrollmentService(store, students, courses, nil, 0, nil, nil)

	first, err := svc.GetEnrollmentByID(context.Background(), seed.EnrollmentID)
	require.NoError(t, err)
	second, err := svc.GetEnrollmentByID(context.Background(), seed.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetEnrollmentByIDReadsThroughCache(t *testing.T) {
	seed := existingEnrollment()
	store := newFakeStore(seed)
	students, courses := defaultLookups()
	cache := newFakeCache()
	svc := NewEnrollmentService(store, students, courses, cache, time.Minute, nil, nil)

	first, err := svc.GetEnrollmentByID(context.Background(), seed.EnrollmentID)
	require.NoError(t, err)
	require.NotEmpty(t, cache.entries)

	// Mutate the store behind the cache's back; the cached copy is served.
	mutated := seed
	mutated.CourseName = "Distributed Systems"
	store.records[seed.EnrollmentID] = mutated

	second, err := svc.GetEnrollmentByID(context.Background(), seed.EnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWritesInvalidateCache(t *testing.T) {
	seed := existingEnrollment()
	store := newFakeStore(seed)
	students, courses := defaultLookups()
	cache := newFakeCache()
	svc := NewEnrollmentService(store, students, courses, cache, time.Minute, nil, nil)

	_, err := svc.GetEnrollmentByID(context.Background(), seed.EnrollmentID)
	require.NoError(t, err)
	require.NotEmpty(t, cache.entries)

	_, err = svc.AddEnrollment(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, cache.entries)
	assert.Equal(t, 1, cache.invalidations)
}
