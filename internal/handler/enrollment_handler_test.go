package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/enrollments-api/internal/dto"
	"github.com/campusops/enrollments-api/internal/models"
	appErrors "github.com/campusops/enrollments-api/pkg/errors"
)

type mockOrchestrator struct {
	enrollments []models.Enrollment
	enrollment  *models.Enrollment
	err         error

	getByIDCalls int
	addCalls     int
	updateCalls  int
	deleteCalls  int
	lastID       string
	lastRequest  dto.EnrollmentRequest
}

func (m *mockOrchestrator) GetEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	return m.enrollments, m.err
}

func (m *mockOrchestrator) GetEnrollmentByID(ctx context.Context, id string) (*models.Enrollment, error) {
	m.getByIDCalls++
	m.lastID = id
	return m.enrollment, m.err
}

func (m *mockOrchestrator) AddEnrollment(ctx context.Context, req dto.EnrollmentRequest) (*models.Enrollment, error) {
	m.addCalls++
	m.lastRequest = req
	return m.enrollment, m.err
}

func (m *mockOrchestrator) UpdateEnrollment(ctx context.Context, id string, req dto.EnrollmentRequest) (*models.Enrollment, error) {
	m.updateCalls++
	m.lastID = id
	m.lastRequest = req
	return m.enrollment, m.err
}

func (m *mockOrchestrator) DeleteEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	m.deleteCalls++
	m.lastID = id
	return m.enrollment, m.err
}

func newEnrollmentRouter(m *mockOrchestrator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEnrollmentHandler(m)
	r := gin.New()
	r.GET("/enrollments", h.List)
	r.GET("/enrollments/:id", h.Get)
	r.POST("/enrollments", h.Create)
	r.PUT("/enrollments/:id", h.Update)
	r.DELETE("/enrollments/:id", h.Delete)
	return r
}

const knownID = "06a7d573-bcab-4db3-956f-773324b92a80"

func storedEnrollment() *models.Enrollment {
	return &models.Enrollment{
		EnrollmentID:     knownID,
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

func requestBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"enrollmentYear": 2021,
		"semester":       "FALL",
		"studentId":      "S1",
		"courseId":       "C1",
	})
	require.NoError(t, err)
	return bytes.NewBuffer(payload)
}

func errorMessage(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var parsed struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body.Bytes(), &parsed))
	return parsed.Message
}

func TestEnrollmentHandlerListEmpty(t *testing.T) {
	router := newEnrollmentRouter(&mockOrchestrator{enrollments: []models.Enrollment{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/enrollments", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestEnrollmentHandlerGet(t *testing.T) {
	mock := &mockOrchestrator{enrollment: storedEnrollment()}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/enrollments/"+knownID, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, knownID, mock.lastID)

	var got models.Enrollment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *storedEnrollment(), got)
}

func TestEnrollmentHandlerGetMalformedIDSkipsService(t *testing.T) {
	mock := &mockOrchestrator{}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/enrollments/short-id", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Enrollment id=short-id is invalid", errorMessage(t, w.Body))
	assert.Zero(t, mock.getByIDCalls)
}

func TestEnrollmentHandlerGetNotFound(t *testing.T) {
	mock := &mockOrchestrator{err: appErrors.EnrollmentNotFound(knownID)}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/enrollments/"+knownID, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Enrollment with id="+knownID+" is not found", errorMessage(t, w.Body))
}

func TestEnrollmentHandlerCreate(t *testing.T) {
	mock := &mockOrchestrator{enrollment: storedEnrollment()}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrollments", requestBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, mock.addCalls)
	require.NotNil(t, mock.lastRequest.StudentID)
	assert.Equal(t, "S1", *mock.lastRequest.StudentID)

	var got models.Enrollment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Christine", got.StudentFirstName)
	assert.Equal(t, "Web Services", got.CourseName)
}

func TestEnrollmentHandlerCreateMalformedBody(t *testing.T) {
	mock := &mockOrchestrator{}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrollments", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, mock.addCalls)
}

func TestEnrollmentHandlerCreateValidationError(t *testing.T) {
	mock := &mockOrchestrator{err: appErrors.ErrMissingEnrollmentYear}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrollments", bytes.NewBufferString(`{"semester":"FALL"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "enrollmentYear is required", errorMessage(t, w.Body))
}

func TestEnrollmentHandlerCreateCourseNotFound(t *testing.T) {
	mock := &mockOrchestrator{err: appErrors.CourseNotFound("C-404")}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrollments", requestBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Course with id=C-404 is not found", errorMessage(t, w.Body))
}

func TestEnrollmentHandlerCreateInvalidStudentID(t *testing.T) {
	mock := &mockOrchestrator{err: appErrors.InvalidStudentID("not-a-uuid")}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrollments", requestBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Student id=not-a-uuid is invalid", errorMessage(t, w.Body))
}

func TestEnrollmentHandlerCreateRemoteFault(t *testing.T) {
	mock := &mockOrchestrator{err: appErrors.Clone(appErrors.ErrRemoteFault, "course service unreachable")}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enrollments", requestBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestEnrollmentHandlerUpdate(t *testing.T) {
	mock := &mockOrchestrator{enrollment: storedEnrollment()}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/enrollments/"+knownID, requestBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, mock.updateCalls)
	assert.Equal(t, knownID, mock.lastID)
}

func TestEnrollmentHandlerUpdateMalformedIDSkipsService(t *testing.T) {
	mock := &mockOrchestrator{}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/enrollments/short-id", requestBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Enrollment id=short-id is invalid", errorMessage(t, w.Body))
	assert.Zero(t, mock.updateCalls)
}

func TestEnrollmentHandlerDeleteReturnsRecord(t *testing.T) {
	mock := &mockOrchestrator{enrollment: storedEnrollment()}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/enrollments/"+knownID, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, mock.deleteCalls)

	var got models.Enrollment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, knownID, got.EnrollmentID)
}

func TestEnrollmentHandlerDeleteMalformedID(t *testing.T) {
	mock := &mockOrchestrator{}
	router := newEnrollmentRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/enrollments/short-id", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Zero(t, mock.deleteCalls)
}
