package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"surat-portal/internal/dto"
	"surat-portal/internal/model"
	"surat-portal/internal/repository"
	apperrors "surat-portal/pkg/errors"
	"surat-portal/pkg/formschema"
)

// ── template errors ──

var (
	ErrTemplateNotFound  = fmt.Errorf("%w: template tidak ditemukan", apperrors.ErrNotFound)
	ErrTemplateInactive  = fmt.Errorf("%w: template tidak aktif", apperrors.ErrForbidden)
	ErrTemplateAdminOnly = fmt.Errorf("%w: hanya admin yang dapat mengelola template", apperrors.ErrForbidden)
	ErrTemplateSlugTaken = fmt.Errorf("%w: slug sudah dipakai", apperrors.ErrConflict)
	ErrTemplateInUse     = fmt.Errorf("%w: template masih dipakai oleh pengajuan", apperrors.ErrConflict)
)

// TemplateService form template use cases.
type TemplateService interface {
	// List returns templates newest first. Inactive templates are included
	// only for admins; actor may be nil for anonymous callers.
	List(ctx context.Context, actor *Actor) ([]dto.TemplateResponse, error)
	// Get resolves idOrSlug through the lookup chain.
	Get(ctx context.Context, idOrSlug string, actor *Actor) (*dto.TemplateResponse, error)
	Create(ctx context.Context, req *dto.CreateTemplateRequest, actor *Actor) (*dto.TemplateResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTemplateRequest, actor *Actor) (*dto.TemplateResponse, error)
	// Delete refuses while submissions still reference the template.
	Delete(ctx context.Context, id string, actor *Actor) error
	// EnsureDefaultTemplates inserts the built-in templates whose slugs are
	// missing and returns how many were created. Safe to run repeatedly.
	EnsureDefaultTemplates(ctx context.Context) (int, error)
}

type templateService struct {
	repo     *repository.Repository
	logger   *zap.Logger
	defaults func() ([]DefaultTemplate, error)
}

// NewTemplateService creates a TemplateService.
func NewTemplateService(repo *repository.Repository, logger *zap.Logger) TemplateService {
	return &templateService{repo: repo, logger: logger, defaults: LoadDefaultTemplates}
}

// ────────────────────── List ──────────────────────

func (s *templateService) List(ctx context.Context, actor *Actor) ([]dto.TemplateResponse, error) {
	tpls, err := s.repo.Template.List(ctx, actor.IsAdmin())
	if err != nil {
		s.logger.Error("list templates failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TemplateResponse, 0, len(tpls))
	for i := range tpls {
		result = append(result, *toTemplateResponse(&tpls[i]))
	}
	return result, nil
}

// ────────────────────── Get ──────────────────────

func (s *templateService) Get(ctx context.Context, idOrSlug string, actor *Actor) (*dto.TemplateResponse, error) {
	tpl, err := s.resolveTemplate(ctx, idOrSlug)
	if err != nil {
		if !errors.Is(err, ErrTemplateNotFound) {
			s.logger.Error("resolve template failed", zap.String("key", idOrSlug), zap.Error(err))
		}
		return nil, err
	}

	if !tpl.IsActive && !actor.IsAdmin() {
		return nil, ErrTemplateInactive
	}

	return toTemplateResponse(tpl), nil
}

// ────────────────────── Create ──────────────────────

func (s *templateService) Create(ctx context.Context, req *dto.CreateTemplateRequest, actor *Actor) (*dto.TemplateResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrTemplateAdminOnly
	}

	slug := strings.TrimSpace(req.Slug)
	title := strings.TrimSpace(req.Title)

	ve := apperrors.NewValidationError("template tidak valid")
	if len([]rune(slug)) < 2 {
		ve.Add("slug", "slug minimal 2 karakter")
	}
	if len([]rune(title)) < 3 {
		ve.Add("title", "judul minimal 3 karakter")
	}
	if req.Schema == nil {
		ve.Add("schema", "schema wajib diisi")
	} else if sve := formschema.ValidateSchema(req.Schema); sve != nil {
		for k, v := range sve.Fields {
			ve.Add(k, v)
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	if _, err := s.repo.Template.GetBySlug(ctx, slug); err == nil {
		return nil, ErrTemplateSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("check slug failed", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	tpl := &model.FormTemplate{
		Slug:        slug,
		Title:       title,
		Description: req.Description,
		IsActive:    isActive,
		Schema:      req.Schema,
		AuthorID:    actor.ID,
	}

	if err := s.repo.Template.Create(ctx, tpl); err != nil {
		s.logger.Error("create template failed", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}

	s.logger.Info("template created",
		zap.String("id", tpl.ID),
		zap.String("slug", tpl.Slug),
		zap.String("author_id", actor.ID),
	)

	return toTemplateResponse(tpl), nil
}

// ────────────────────── Update ──────────────────────

func (s *templateService) Update(ctx context.Context, id string, req *dto.UpdateTemplateRequest, actor *Actor) (*dto.TemplateResponse, error) {
	if !actor.IsAdmin() {
		return nil, ErrTemplateAdminOnly
	}

	tpl, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len([]rune(title)) < 3 {
			return nil, apperrors.FieldError("title", "judul minimal 3 karakter")
		}
		tpl.Title = title
	}
	if req.Description != nil {
		tpl.Description = req.Description
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}
	if req.Schema != nil {
		if ve := formschema.ValidateSchema(*req.Schema); ve != nil {
			return nil, ve
		}
		tpl.Schema = *req.Schema
	}

	if err := s.repo.Template.Update(ctx, tpl); err != nil {
		s.logger.Error("update template failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTemplateResponse(tpl), nil
}

// ────────────────────── Delete ──────────────────────

func (s *templateService) Delete(ctx context.Context, id string, actor *Actor) error {
	if !actor.IsAdmin() {
		return ErrTemplateAdminOnly
	}

	if _, err := s.findByID(ctx, id); err != nil {
		return err
	}

	n, err := s.repo.Submission.CountByTemplate(ctx, id)
	if err != nil {
		s.logger.Error("count submissions failed", zap.String("template_id", id), zap.Error(err))
		return err
	}
	if n > 0 {
		return ErrTemplateInUse
	}

	if err := s.repo.Template.Delete(ctx, id); err != nil {
		s.logger.Error("delete template failed", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("template deleted", zap.String("id", id), zap.String("by", actor.ID))
	return nil
}

// ── helpers ──

func toTemplateResponse(tpl *model.FormTemplate) *dto.TemplateResponse {
	schema := tpl.Fields()
	if schema == nil {
		schema = []formschema.Field{}
	}
	return &dto.TemplateResponse{
		ID:          tpl.ID,
		Slug:        tpl.Slug,
		Title:       tpl.Title,
		Description: tpl.Description,
		IsActive:    tpl.IsActive,
		Schema:      schema,
		AuthorID:    tpl.AuthorID,
		CreatedAt:   isoTime(tpl.CreatedAt),
		UpdatedAt:   isoTime(tpl.UpdatedAt),
	}
}

// findByID loads a template by primary key only. Keys that are not UUIDs
// cannot match the uuid column and are reported as not found.
func (s *templateService) findByID(ctx context.Context, id string) (*model.FormTemplate, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrTemplateNotFound
	}
	tpl, err := s.repo.Template.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("get template failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return tpl, nil
}
