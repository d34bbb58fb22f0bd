package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"surat-portal/internal/model"
)

// TemplateRepository form template data access.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *model.FormTemplate) error
	GetByID(ctx context.Context, id string) (*model.FormTemplate, error)
	// GetBySlug matches the slug case-insensitively.
	GetBySlug(ctx context.Context, slug string) (*model.FormTemplate, error)
	// GetByTitle matches the title case-insensitively.
	GetByTitle(ctx context.Context, title string) (*model.FormTemplate, error)
	// List returns templates newest first; inactive ones only when asked.
	List(ctx context.Context, includeInactive bool) ([]model.FormTemplate, error)
	// ExistingSlugs returns which of slugs already exist.
	ExistingSlugs(ctx context.Context, slugs []string) ([]string, error)
	// CreateMany inserts templates, skipping slugs that already exist.
	CreateMany(ctx context.Context, tpls []model.FormTemplate) error
	Update(ctx context.Context, tpl *model.FormTemplate) error
	Delete(ctx context.Context, id string) error
}

type templateRepo struct {
	db *gorm.DB
}

// NewTemplateRepo creates a TemplateRepository.
func NewTemplateRepo(db *gorm.DB) TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) Create(ctx context.Context, tpl *model.FormTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*model.FormTemplate, error) {
	var tpl model.FormTemplate
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) GetBySlug(ctx context.Context, slug string) (*model.FormTemplate, error) {
	var tpl model.FormTemplate
	err := r.db.WithContext(ctx).
		Where("LOWER(slug) = LOWER(?)", slug).
		Order("created_at ASC").
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) GetByTitle(ctx context.Context, title string) (*model.FormTemplate, error) {
	var tpl model.FormTemplate
	err := r.db.WithContext(ctx).
		Where("LOWER(title) = LOWER(?)", title).
		Order("created_at ASC").
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) List(ctx context.Context, includeInactive bool) ([]model.FormTemplate, error) {
	var tpls []model.FormTemplate
	db := r.db.WithContext(ctx)

	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	err := db.Order("created_at DESC").Find(&tpls).Error
	return tpls, err
}

func (r *templateRepo) ExistingSlugs(ctx context.Context, slugs []string) ([]string, error) {
	var found []string
	if len(slugs) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).
		Model(&model.FormTemplate{}).
		Where("slug IN ?", slugs).
		Pluck("slug", &found).Error
	return found, err
}

func (r *templateRepo) CreateMany(ctx context.Context, tpls []model.FormTemplate) error {
	if len(tpls) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&tpls).Error
}

func (r *templateRepo) Update(ctx context.Context, tpl *model.FormTemplate) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

func (r *templateRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.FormTemplate{}).Error
}
