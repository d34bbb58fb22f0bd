package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"surat-portal/internal/dto"
	"surat-portal/pkg/cloudinary"
	apperrors "surat-portal/pkg/errors"
)

var ErrUploadNotConfigured = apperrors.FieldError("upload", "layanan unggah belum dikonfigurasi")

// UploadService issues direct-upload credentials for the media host.
type UploadService interface {
	Sign(ctx context.Context, req *dto.SignUploadRequest, actor *Actor) (*cloudinary.Credentials, error)
}

type uploadService struct {
	signer        *cloudinary.Signer
	defaultFolder string
	logger        *zap.Logger
}

// NewUploadService creates an UploadService. An empty request folder falls
// back to defaultFolder.
func NewUploadService(signer *cloudinary.Signer, defaultFolder string, logger *zap.Logger) UploadService {
	return &uploadService{signer: signer, defaultFolder: defaultFolder, logger: logger}
}

func (s *uploadService) Sign(_ context.Context, req *dto.SignUploadRequest, actor *Actor) (*cloudinary.Credentials, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if s.signer == nil {
		return nil, ErrUploadNotConfigured
	}

	folder := strings.TrimSpace(req.Folder)
	if folder == "" {
		folder = s.defaultFolder
	}
	if strings.Contains(folder, "..") {
		return nil, apperrors.FieldError("folder", "folder tidak valid")
	}

	creds, err := s.signer.Sign(map[string]string{
		"folder":    folder,
		"public_id": strings.TrimSpace(req.PublicID),
	})
	if err != nil {
		if errors.Is(err, cloudinary.ErrNotConfigured) {
			return nil, ErrUploadNotConfigured
		}
		return nil, fmt.Errorf("sign upload: %w", err)
	}

	s.logger.Debug("upload signed", zap.String("user_id", actor.ID), zap.String("folder", folder))
	return creds, nil
}
