package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"surat-portal/internal/dto"
	"surat-portal/internal/service"
	apperrors "surat-portal/pkg/errors"
	"surat-portal/pkg/response"
)

// SubmissionHandler letter submission endpoints.
type SubmissionHandler struct {
	submissionSvc service.SubmissionService
}

// NewSubmissionHandler creates a SubmissionHandler.
func NewSubmissionHandler(submissionSvc service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// Create a submission for the caller.
// POST /api/v1/submissions
func (h *SubmissionHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	sub, err := h.submissionSvc.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}
	response.Created(c, sub)
}

// List submissions visible to the caller.
// GET /api/v1/submissions
func (h *SubmissionHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.SubmissionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	subs, err := h.submissionSvc.List(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}
	response.OK(c, subs)
}

// Get one submission.
// GET /api/v1/submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	sub, err := h.submissionSvc.Get(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}
	response.OK(c, sub)
}

// UpdateStatus changes status and/or notes (admin).
// PATCH /api/v1/submissions/:id
func (h *SubmissionHandler) UpdateStatus(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateSubmissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	sub, err := h.submissionSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req, actor)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}
	response.OK(c, sub)
}

// PDF downloads the rendered letter request.
// GET /api/v1/submissions/:id/pdf
func (h *SubmissionHandler) PDF(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	pdf, filename, err := h.submissionSvc.RenderPDF(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		h.handleSubmissionError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *SubmissionHandler) handleSubmissionError(c *gin.Context, err error) {
	if ve, ok := apperrors.AsValidation(err); ok {
		writeValidation(c, 30001, ve)
		return
	}
	if _, ok := apperrors.AsRender(err); ok {
		response.Error(c, http.StatusInternalServerError, 30007, "Dokumen tidak dapat dibuat")
		return
	}
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		response.NotFound(c, 30002, "Pengajuan tidak ditemukan")
	case errors.Is(err, service.ErrSubmissionTemplateNotFound):
		response.NotFound(c, 30003, "Template tidak ditemukan")
	case errors.Is(err, service.ErrTemplateInactive):
		response.Forbidden(c, 30004, "Template tidak aktif")
	case errors.Is(err, service.ErrStatusAdminOnly):
		response.Forbidden(c, 30005, "Hanya admin yang dapat mengubah status")
	case errors.Is(err, service.ErrSubmissionForbidden):
		response.Forbidden(c, 30006, "Akses ditolak")
	case errors.Is(err, apperrors.ErrUnauthorized):
		response.Unauthorized(c, 10002, "Silakan login terlebih dahulu")
	default:
		response.InternalError(c)
	}
}
