package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"surat-portal/internal/dto"
	"surat-portal/internal/service"
	apperrors "surat-portal/pkg/errors"
	"surat-portal/pkg/response"
)

// UserHandler account endpoints.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Create adds an account. Open while no account exists, admin-only after.
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.userSvc.Create(c.Request.Context(), &req, OptionalActor(c))
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateProfile edits the caller's own profile.
// PATCH /api/v1/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.userSvc.UpdateProfile(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	if ve, ok := apperrors.AsValidation(err); ok {
		writeValidation(c, 11101, ve)
		return
	}
	switch {
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 11102, "Email sudah terdaftar")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11103, "Pengguna tidak ditemukan")
	case errors.Is(err, apperrors.ErrUnauthorized):
		response.Unauthorized(c, 10002, "Silakan login terlebih dahulu")
	case errors.Is(err, apperrors.ErrForbidden):
		response.Forbidden(c, 10003, "Hanya admin yang dapat membuat pengguna")
	default:
		response.InternalError(c)
	}
}
