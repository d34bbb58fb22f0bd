package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"surat-portal/internal/dto"
	"surat-portal/internal/service"
	apperrors "surat-portal/pkg/errors"
	"surat-portal/pkg/response"
)

// UploadHandler direct-upload signing.
type UploadHandler struct {
	uploadSvc service.UploadService
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(uploadSvc service.UploadService) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc}
}

// Sign returns credentials for one browser upload.
// POST /api/v1/uploads/sign
func (h *UploadHandler) Sign(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.SignUploadRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFailed(c, err)
			return
		}
	}

	creds, err := h.uploadSvc.Sign(c.Request.Context(), &req, actor)
	if err != nil {
		if ve, ok := apperrors.AsValidation(err); ok {
			writeValidation(c, 40001, ve)
			return
		}
		if errors.Is(err, apperrors.ErrUnauthorized) {
			response.Unauthorized(c, 10002, "Silakan login terlebih dahulu")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, creds)
}
