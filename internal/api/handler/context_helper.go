package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"surat-portal/internal/model"
	"surat-portal/internal/service"
	apperrors "surat-portal/pkg/errors"
	"surat-portal/pkg/response"
)

// MustGetActor returns the session attached by the auth middleware. When
// it is missing a 401 is written and ok is false; callers return at once.
func MustGetActor(c *gin.Context) (*service.Actor, bool) {
	actor := OptionalActor(c)
	if actor == nil {
		response.Unauthorized(c, 10002, "Silakan login terlebih dahulu")
		return nil, false
	}
	return actor, true
}

// OptionalActor returns the session, or nil for anonymous requests.
func OptionalActor(c *gin.Context) *service.Actor {
	id := c.GetString("user_id")
	role := c.GetString("role")
	if id == "" || role == "" {
		return nil
	}
	return &service.Actor{
		ID:    id,
		Email: c.GetString("email"),
		Name:  c.GetString("name"),
		Role:  model.Role(role),
	}
}

// bindFailed writes a 400 for a request that failed binding. Validator
// failures are reported per field; anything else (malformed JSON, wrong
// types) gets a single message.
func bindFailed(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = validationMessage(fe)
		}
		response.ValidationFailed(c, 10001, "Data tidak valid", fields)
		return
	}
	response.BadRequest(c, 10001, "Format permintaan tidak valid")
}

// writeValidation writes a service ValidationError as 400.
func writeValidation(c *gin.Context, code int, ve *apperrors.ValidationError) {
	response.ValidationFailed(c, code, ve.Message, ve.Fields)
}

// fieldPath drops the top-level struct name: "CreateUserRequest.email" → "email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "email":
		return "format email tidak valid"
	case "url":
		return "format URL tidak valid"
	case "min":
		return "minimal " + fe.Param() + " karakter"
	case "max":
		return "maksimal " + fe.Param() + " karakter"
	case "oneof":
		return "harus salah satu dari: " + fe.Param()
	case "submission_status":
		return "status tidak valid"
	}
	return "tidak valid"
}
