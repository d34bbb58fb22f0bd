package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"surat-portal/internal/document"
	"surat-portal/internal/dto"
	"surat-portal/internal/model"
	"surat-portal/internal/repository"
	apperrors "surat-portal/pkg/errors"
	"surat-portal/pkg/formschema"
)

// ── submission errors ──

var (
	ErrSubmissionNotFound         = fmt.Errorf("%w: pengajuan tidak ditemukan", apperrors.ErrNotFound)
	ErrSubmissionForbidden        = fmt.Errorf("%w: bukan pengajuan milik Anda", apperrors.ErrForbidden)
	ErrSubmissionTemplateNotFound = fmt.Errorf("%w: template pengajuan tidak ditemukan", apperrors.ErrNotFound)
	ErrStatusAdminOnly            = fmt.Errorf("%w: hanya admin yang dapat mengubah status", apperrors.ErrForbidden)
)

const minSubmissionTitle = 3

// SubmissionService letter submission use cases.
type SubmissionService interface {
	Create(ctx context.Context, req *dto.CreateSubmissionRequest, actor *Actor) (*dto.SubmissionResponse, error)
	// List returns every submission for admins and only the caller's own
	// for students, newest first.
	List(ctx context.Context, req *dto.SubmissionListRequest, actor *Actor) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, id string, actor *Actor) (*dto.SubmissionResponse, error)
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateSubmissionStatusRequest, actor *Actor) (*dto.SubmissionResponse, error)
	// RenderPDF returns the document bytes and the download file name.
	RenderPDF(ctx context.Context, id string, actor *Actor) ([]byte, string, error)
}

type submissionService struct {
	repo   *repository.Repository
	policy TransitionPolicy
	logger *zap.Logger
}

// NewSubmissionService creates a SubmissionService. A nil policy allows
// every transition.
func NewSubmissionService(repo *repository.Repository, policy TransitionPolicy, logger *zap.Logger) SubmissionService {
	if policy == nil {
		policy = PermissiveTransitions{}
	}
	return &submissionService{repo: repo, policy: policy, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *submissionService) Create(ctx context.Context, req *dto.CreateSubmissionRequest, actor *Actor) (*dto.SubmissionResponse, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}

	templateID := strings.TrimSpace(req.TemplateID)
	if templateID == "" {
		return nil, apperrors.FieldError("templateId", "template wajib dipilih")
	}

	tpl, err := s.getTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, ErrSubmissionTemplateNotFound) {
			return nil, apperrors.FieldError("templateId", "template tidak ditemukan")
		}
		return nil, err
	}
	if !tpl.IsActive && !actor.IsAdmin() {
		return nil, ErrTemplateInactive
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = tpl.Title
	}

	ve := apperrors.NewValidationError("data pengajuan tidak valid")
	if len([]rune(title)) < minSubmissionTitle {
		ve.Add("title", fmt.Sprintf("judul minimal %d karakter", minSubmissionTitle))
	}
	if pve := formschema.ValidatePayload(tpl.Fields(), &req.Payload); pve != nil {
		for k, v := range pve.Fields {
			ve.Add(k, v)
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}

	sub := &model.LetterSubmission{
		TemplateID:  tpl.ID,
		Title:       title,
		Payload:     req.Payload,
		Notes:       trimmedOrNil(req.Notes),
		Status:      model.StatusInReview,
		CreatedByID: actor.ID,
		Attachments: NormalizeAttachments(req.Attachments),
	}

	if err := s.repo.Submission.Create(ctx, sub); err != nil {
		s.logger.Error("create submission failed",
			zap.String("template_id", tpl.ID),
			zap.String("user_id", actor.ID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("submission created",
		zap.String("id", sub.ID),
		zap.String("template_id", tpl.ID),
		zap.String("user_id", actor.ID),
		zap.Int("attachments", len(sub.Attachments)),
	)

	sub.Template = tpl
	return toSubmissionResponse(sub), nil
}

// ────────────────────── List ──────────────────────

func (s *submissionService) List(ctx context.Context, req *dto.SubmissionListRequest, actor *Actor) ([]dto.SubmissionResponse, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}

	filter := repository.SubmissionFilter{}
	if req != nil {
		filter.TemplateID = strings.TrimSpace(req.TemplateID)
		filter.Status = model.SubmissionStatus(strings.TrimSpace(req.Status))
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.FieldError("status", "status tidak valid")
	}
	if filter.TemplateID != "" {
		if _, err := uuid.Parse(filter.TemplateID); err != nil {
			return []dto.SubmissionResponse{}, nil
		}
	}
	if !actor.IsAdmin() {
		filter.CreatedByID = actor.ID
	}

	subs, err := s.repo.Submission.List(ctx, filter)
	if err != nil {
		s.logger.Error("list submissions failed", zap.String("user_id", actor.ID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SubmissionResponse, 0, len(subs))
	for i := range subs {
		result = append(result, *toSubmissionResponse(&subs[i]))
	}
	return result, nil
}

// ────────────────────── Get ──────────────────────

func (s *submissionService) Get(ctx context.Context, id string, actor *Actor) (*dto.SubmissionResponse, error) {
	sub, err := s.load(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	return toSubmissionResponse(sub), nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *submissionService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateSubmissionStatusRequest, actor *Actor) (*dto.SubmissionResponse, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return nil, ErrStatusAdminOnly
	}

	var next model.SubmissionStatus
	if req.Status != nil {
		next = model.SubmissionStatus(strings.TrimSpace(*req.Status))
		if !next.Valid() {
			return nil, apperrors.FieldError("status", "status tidak valid")
		}
	}

	sub, err := s.load(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	prev := sub.Status
	var log *model.SubmissionStatusLog
	if next != "" {
		if !s.policy.Allow(prev, next) {
			return nil, apperrors.FieldError("status",
				fmt.Sprintf("perubahan status dari %s ke %s tidak diizinkan", prev, next))
		}
		if next != prev {
			log = &model.SubmissionStatusLog{
				SubmissionID: sub.ID,
				FromStatus:   prev,
				ToStatus:     next,
				ChangedByID:  actor.ID,
				Note:         trimmedOrNil(req.Notes),
			}
		}
		sub.Status = next
	}
	if req.Notes != nil {
		sub.Notes = trimmedOrNil(req.Notes)
	}

	if err := s.repo.Submission.UpdateStatus(ctx, sub, log); err != nil {
		s.logger.Error("update submission status failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if log != nil {
		s.logger.Info("submission status changed",
			zap.String("id", sub.ID),
			zap.String("from", string(prev)),
			zap.String("to", string(next)),
			zap.String("by", actor.ID),
		)
	}

	updated, err := s.repo.Submission.GetByID(ctx, sub.ID)
	if err != nil {
		s.logger.Error("reload submission failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toSubmissionResponse(updated), nil
}

// ────────────────────── RenderPDF ──────────────────────

func (s *submissionService) RenderPDF(ctx context.Context, id string, actor *Actor) ([]byte, string, error) {
	sub, err := s.load(ctx, id, actor)
	if err != nil {
		return nil, "", err
	}

	tpl := sub.Template
	if tpl == nil {
		tpl, err = s.getTemplate(ctx, sub.TemplateID)
		if err != nil && !errors.Is(err, ErrSubmissionTemplateNotFound) {
			return nil, "", err
		}
	}

	pdf, err := document.RenderSubmission(sub, tpl)
	if err != nil {
		s.logger.Error("render submission failed", zap.String("id", id), zap.Error(err))
		return nil, "", err
	}

	return pdf, document.FileName(sub.ID), nil
}

// ── helpers ──

// load fetches a submission and enforces read access. A missing record is
// reported before ownership.
func (s *submissionService) load(ctx context.Context, id string, actor *Actor) (*model.LetterSubmission, error) {
	if actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSubmissionNotFound
	}

	sub, err := s.repo.Submission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("get submission failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if !actor.IsAdmin() && sub.CreatedByID != actor.ID {
		return nil, ErrSubmissionForbidden
	}
	return sub, nil
}

func (s *submissionService) getTemplate(ctx context.Context, id string) (*model.FormTemplate, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSubmissionTemplateNotFound
	}
	tpl, err := s.repo.Template.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionTemplateNotFound
		}
		s.logger.Error("get template failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return tpl, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func toSubmissionResponse(sub *model.LetterSubmission) *dto.SubmissionResponse {
	resp := &dto.SubmissionResponse{
		ID:          sub.ID,
		TemplateID:  sub.TemplateID,
		Title:       sub.Title,
		Payload:     sub.Payload,
		Notes:       sub.Notes,
		Status:      string(sub.Status),
		CreatedByID: sub.CreatedByID,
		CreatedAt:   isoTime(sub.CreatedAt),
		UpdatedAt:   isoTime(sub.UpdatedAt),
		Attachments: make([]dto.AttachmentResponse, 0, len(sub.Attachments)),
	}
	if sub.Template != nil {
		resp.Template = &dto.TemplateSummary{
			ID:    sub.Template.ID,
			Slug:  sub.Template.Slug,
			Title: sub.Template.Title,
		}
	}
	for _, a := range sub.Attachments {
		resp.Attachments = append(resp.Attachments, dto.AttachmentResponse{
			ID:       a.ID,
			URL:      a.URL,
			PublicID: a.PublicID,
			Format:   a.Format,
			Bytes:    a.Bytes,
			Width:    a.Width,
			Height:   a.Height,
			Type:     a.Type,
		})
	}
	for _, l := range sub.StatusLogs {
		resp.History = append(resp.History, dto.StatusLogResponse{
			FromStatus:  string(l.FromStatus),
			ToStatus:    string(l.ToStatus),
			ChangedByID: l.ChangedByID,
			Note:        l.Note,
			CreatedAt:   isoTime(l.CreatedAt),
		})
	}
	return resp
}
