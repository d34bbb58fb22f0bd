package handler

import (
	"surat-portal/config"
	"surat-portal/internal/service"
)

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Template   *TemplateHandler
	Submission *SubmissionHandler
	Upload     *UploadHandler
	Export     *ExportHandler
}

// NewHandler creates the handler set.
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, cfg.Auth.Cookie, cfg.Auth.SessionTTL),
		User:       NewUserHandler(svc.User),
		Template:   NewTemplateHandler(svc.Template),
		Submission: NewSubmissionHandler(svc.Submission),
		Upload:     NewUploadHandler(svc.Upload),
		Export:     NewExportHandler(svc.Export),
	}
}
