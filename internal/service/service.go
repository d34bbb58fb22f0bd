package service

import (
	"go.uber.org/zap"

	"surat-portal/config"
	"surat-portal/internal/repository"
	"surat-portal/pkg/cloudinary"
	"surat-portal/pkg/jwt"
	"surat-portal/pkg/redis"
)

// Service aggregates the business services.
type Service struct {
	Auth       AuthService
	User       UserService
	Template   TemplateService
	Submission SubmissionService
	Upload     UploadService
	Export     ExportService
}

// NewService wires every service. rdb may be nil.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	signer *cloudinary.Signer,
	logger *zap.Logger,
) *Service {
	var policy TransitionPolicy = PermissiveTransitions{}
	if cfg.Feature.StrictTransitions {
		policy = DefaultTransitionTable()
	}

	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, rdb, logger),
		User:       NewUserService(repo, logger),
		Template:   NewTemplateService(repo, logger),
		Submission: NewSubmissionService(repo, policy, logger),
		Upload:     NewUploadService(signer, cfg.Upload.DefaultFolder, logger),
		Export:     NewExportService(repo, logger),
	}
}
