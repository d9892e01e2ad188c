package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusops/enrollments-api/internal/dto"
	"github.com/campusops/enrollments-api/internal/service"
	appErrors "github.com/campusops/enrollments-api/pkg/errors"
	"github.com/campusops/enrollments-api/pkg/response"
)

type rosterExporter interface {
	Render(ctx context.Context, req dto.ExportRequest) (*service.ExportDocument, error)
}

// ExportHandler serves roster exports as file attachments.
type ExportHandler struct {
	exports rosterExporter
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports rosterExporter) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Download godoc
// @Summary Export the enrollment roster
// @Tags Enrollments
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "Export format (csv or pdf)"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /enrollments/export [get]
func (h *ExportHandler) Download(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}

	doc, err := h.exports.Render(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
