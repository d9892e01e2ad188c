package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/enrollments-api/internal/dto"
	"github.com/campusops/enrollments-api/internal/models"
	appErrors "github.com/campusops/enrollments-api/pkg/errors"
	"github.com/campusops/enrollments-api/pkg/response"
)

type enrollmentOrchestrator interface {
	GetEnrollments(ctx context.Context) ([]models.Enrollment, error)
	GetEnrollmentByID(ctx context.Context, id string) (*models.Enrollment, error)
	AddEnrollment(ctx context.Context, req dto.EnrollmentRequest) (*models.Enrollment, error)
	UpdateEnrollment(ctx context.Context, id string, req dto.EnrollmentRequest) (*models.Enrollment, error)
	DeleteEnrollment(ctx context.Context, id string) (*models.Enrollment, error)
}

// EnrollmentHandler exposes enrollment endpoints.
type EnrollmentHandler struct {
	enrollments enrollmentOrchestrator
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentOrchestrator) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Enrollment identifiers are 36-character textual UUIDs; anything else is
// rejected before the service runs.
func validEnrollmentID(id string) bool {
	return len(id) == models.EnrollmentIDLength
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Success 200 {array} models.Enrollment
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	enrollments, err := h.enrollments.GetEnrollments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollments)
}

// Get godoc
// @Summary Get enrollment by id
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} models.Enrollment
// @Failure 404 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !validEnrollmentID(id) {
		response.Error(c, appErrors.InvalidEnrollmentID(id))
		return
	}
	enrollment, err := h.enrollments.GetEnrollmentByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollment)
}

// Create godoc
// @Summary Add enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.EnrollmentRequest true "Enrollment payload"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req dto.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.AddEnrollment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Update godoc
// @Summary Update enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body dto.EnrollmentRequest true "Enrollment payload"
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Router /enrollments/{id} [put]
func (h *EnrollmentHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if !validEnrollmentID(id) {
		response.Error(c, appErrors.InvalidEnrollmentID(id))
		return
	}
	var req dto.EnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	enrollment, err := h.enrollments.UpdateEnrollment(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollment)
}

// Delete godoc
// @Summary Delete enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} models.Enrollment
// @Failure 404 {object} response.ErrorBody
// @Failure 422 {object} response.ErrorBody
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !validEnrollmentID(id) {
		response.Error(c, appErrors.InvalidEnrollmentID(id))
		return
	}
	enrollment, err := h.enrollments.DeleteEnrollment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollment)
}
