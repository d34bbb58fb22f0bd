package repository

import (
	"context"

	"gorm.io/gorm"

	"surat-portal/internal/model"
)

// SubmissionFilter narrows List. An empty CreatedByID lists everyone's.
type SubmissionFilter struct {
	CreatedByID string
	TemplateID  string
	Status      model.SubmissionStatus
}

// SubmissionRepository letter submission data access.
type SubmissionRepository interface {
	// Create inserts the submission together with its attachments.
	Create(ctx context.Context, sub *model.LetterSubmission) error
	// GetByID loads the submission with template, attachments and status history.
	GetByID(ctx context.Context, id string) (*model.LetterSubmission, error)
	// List returns matching submissions newest first, with template and attachments.
	List(ctx context.Context, filter SubmissionFilter) ([]model.LetterSubmission, error)
	// UpdateStatus saves status/notes and appends log when it is non-nil,
	// in one transaction.
	UpdateStatus(ctx context.Context, sub *model.LetterSubmission, log *model.SubmissionStatusLog) error
	CountByTemplate(ctx context.Context, templateID string) (int64, error)
}

type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo creates a SubmissionRepository.
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) Create(ctx context.Context, sub *model.LetterSubmission) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.LetterSubmission, error) {
	var sub model.LetterSubmission
	err := r.db.WithContext(ctx).
		Preload("Template").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("StatusLogs", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepo) List(ctx context.Context, filter SubmissionFilter) ([]model.LetterSubmission, error) {
	var subs []model.LetterSubmission
	db := r.db.WithContext(ctx).
		Preload("Template").
		Preload("CreatedBy").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })

	if filter.CreatedByID != "" {
		db = db.Where("created_by_id = ?", filter.CreatedByID)
	}
	if filter.TemplateID != "" {
		db = db.Where("template_id = ?", filter.TemplateID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	err := db.Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *submissionRepo) UpdateStatus(ctx context.Context, sub *model.LetterSubmission, log *model.SubmissionStatusLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.LetterSubmission{}).
			Where("id = ?", sub.ID).
			Updates(map[string]interface{}{
				"status":     sub.Status,
				"notes":      sub.Notes,
				"updated_at": gorm.Expr("NOW()"),
			}).Error
		if err != nil {
			return err
		}
		if log != nil {
			if err := tx.Create(log).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *submissionRepo) CountByTemplate(ctx context.Context, templateID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.LetterSubmission{}).
		Where("template_id = ?", templateID).
		Count(&n).Error
	return n, err
}
