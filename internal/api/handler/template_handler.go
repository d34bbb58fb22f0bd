package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"surat-portal/internal/dto"
	"surat-portal/internal/service"
	apperrors "surat-portal/pkg/errors"
	"surat-portal/pkg/response"
)

// TemplateHandler form template endpoints.
type TemplateHandler struct {
	templateSvc service.TemplateService
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(templateSvc service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateSvc: templateSvc}
}

// List templates; admins also see inactive ones.
// GET /api/v1/templates
func (h *TemplateHandler) List(c *gin.Context) {
	tpls, err := h.templateSvc.List(c.Request.Context(), OptionalActor(c))
	if err != nil {
		h.handleTemplateError(c, err)
		return
	}
	response.OK(c, tpls)
}

// Get a template by id, slug or title.
// GET /api/v1/templates/:key
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, err := h.templateSvc.Get(c.Request.Context(), c.Param("key"), OptionalActor(c))
	if err != nil {
		h.handleTemplateError(c, err)
		return
	}
	response.OK(c, tpl)
}

// Create a template (admin).
// POST /api/v1/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	tpl, err := h.templateSvc.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleTemplateError(c, err)
		return
	}
	response.Created(c, tpl)
}

// Update a template partially (admin).
// PATCH /api/v1/templates/:key
func (h *TemplateHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	tpl, err := h.templateSvc.Update(c.Request.Context(), c.Param("key"), &req, actor)
	if err != nil {
		h.handleTemplateError(c, err)
		return
	}
	response.OK(c, tpl)
}

// Delete a template (admin).
// DELETE /api/v1/templates/:key
func (h *TemplateHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.templateSvc.Delete(c.Request.Context(), c.Param("key"), actor); err != nil {
		h.handleTemplateError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *TemplateHandler) handleTemplateError(c *gin.Context, err error) {
	if ve, ok := apperrors.AsValidation(err); ok {
		writeValidation(c, 20001, ve)
		return
	}
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		response.NotFound(c, 20002, "Template tidak ditemukan")
	case errors.Is(err, service.ErrTemplateInactive):
		response.Forbidden(c, 20003, "Template tidak aktif")
	case errors.Is(err, service.ErrTemplateAdminOnly):
		response.Forbidden(c, 20004, "Hanya admin yang dapat mengelola template")
	case errors.Is(err, service.ErrTemplateSlugTaken):
		response.Conflict(c, 20005, "Slug sudah dipakai")
	case errors.Is(err, service.ErrTemplateInUse):
		response.Conflict(c, 20006, "Template masih dipakai oleh pengajuan")
	default:
		response.InternalError(c)
	}
}
