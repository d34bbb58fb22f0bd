package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"surat-portal/internal/model"
	"surat-portal/pkg/formschema"
)

//go:embed defaults/templates.json
var defaultTemplatesJSON []byte

const (
	seederName  = "Template Seeder"
	seederEmail = "template-seeder@surat-portal.local"
)

// DefaultTemplate is one built-in letter template.
type DefaultTemplate struct {
	Slug        string             `json:"slug"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	IsActive    *bool              `json:"isActive"`
	Schema      []formschema.Field `json:"schema"`
}

// LoadDefaultTemplates decodes the embedded template set.
func LoadDefaultTemplates() ([]DefaultTemplate, error) {
	var tpls []DefaultTemplate
	if err := json.Unmarshal(defaultTemplatesJSON, &tpls); err != nil {
		return nil, fmt.Errorf("decode default templates: %w", err)
	}
	return tpls, nil
}

func (s *templateService) EnsureDefaultTemplates(ctx context.Context) (int, error) {
	defaults, err := s.defaults()
	if err != nil {
		return 0, err
	}

	slugs := make([]string, 0, len(defaults))
	for _, d := range defaults {
		slugs = append(slugs, d.Slug)
	}

	existing, err := s.repo.Template.ExistingSlugs(ctx, slugs)
	if err != nil {
		s.logger.Error("check default templates failed", zap.Error(err))
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, slug := range existing {
		have[slug] = true
	}

	var missing []DefaultTemplate
	for _, d := range defaults {
		if !have[d.Slug] {
			missing = append(missing, d)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	author, err := s.seedAuthor(ctx)
	if err != nil {
		return 0, err
	}

	tpls := make([]model.FormTemplate, 0, len(missing))
	for _, d := range missing {
		isActive := true
		if d.IsActive != nil {
			isActive = *d.IsActive
		}
		var desc *string
		if d.Description != "" {
			desc = &d.Description
		}
		tpls = append(tpls, model.FormTemplate{
			Slug:        d.Slug,
			Title:       d.Title,
			Description: desc,
			IsActive:    isActive,
			Schema:      d.Schema,
			AuthorID:    author.ID,
		})
	}

	if err := s.repo.Template.CreateMany(ctx, tpls); err != nil {
		s.logger.Error("seed default templates failed", zap.Error(err))
		return 0, err
	}

	s.logger.Info("default templates seeded",
		zap.Int("count", len(tpls)),
		zap.String("author_id", author.ID),
	)
	return len(tpls), nil
}

// seedAuthor returns the first admin, creating an inactive placeholder
// admin when the portal has none yet.
func (s *templateService) seedAuthor(ctx context.Context) (*model.User, error) {
	admin, err := s.repo.User.FirstAdmin(ctx)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("find admin failed", zap.Error(err))
		return nil, err
	}

	if existing, err := s.repo.User.GetByEmail(ctx, seederEmail); err == nil {
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seeder password: %w", err)
	}

	seeder := &model.User{
		Name:         seederName,
		Email:        seederEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     false,
	}
	if err := s.repo.User.Create(ctx, seeder); err != nil {
		s.logger.Error("create seeder admin failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("seeder admin created", zap.String("id", seeder.ID))
	return seeder, nil
}
