package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"surat-portal/internal/dto"
	"surat-portal/internal/service"
	apperrors "surat-portal/pkg/errors"
	"surat-portal/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler spreadsheet export.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSubmissions downloads submissions as .xlsx (admin).
// GET /api/v1/submissions/export?status=&templateId=
func (h *ExportHandler) ExportSubmissions(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.SubmissionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportSubmissions(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if ve, ok := apperrors.AsValidation(err); ok {
		writeValidation(c, 30101, ve)
		return
	}
	switch {
	case errors.Is(err, service.ErrExportAdminOnly):
		response.Forbidden(c, 30102, "Hanya admin yang dapat mengekspor")
	case errors.Is(err, apperrors.ErrUnauthorized):
		response.Unauthorized(c, 10002, "Silakan login terlebih dahulu")
	default:
		response.InternalError(c)
	}
}
