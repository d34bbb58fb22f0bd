package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"surat-portal/internal/model"
)

var fold = cases.Fold()

// lookupCandidates expands a template key into the slug and title variants
// to try. Old links mixed hyphens and spaces and varied in case.
func lookupCandidates(key string) []string {
	k := fold.String(strings.TrimSpace(key))
	if k == "" {
		return nil
	}
	variants := []string{
		k,
		strings.ReplaceAll(k, " ", "-"),
		strings.ReplaceAll(k, "-", " "),
		strings.ReplaceAll(k, "_", "-"),
	}

	out := make([]string, 0, len(variants))
	seen := make(map[string]bool, len(variants))
	for _, v := range variants {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// resolveTemplate finds a template by id, then slug, then a normalized
// slug, then title. Only gorm.ErrRecordNotFound from every step yields
// ErrTemplateNotFound; other store errors are returned as-is.
func (s *templateService) resolveTemplate(ctx context.Context, key string) (*model.FormTemplate, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrTemplateNotFound
	}

	if _, err := uuid.Parse(key); err == nil {
		tpl, err := s.repo.Template.GetByID(ctx, key)
		if err == nil {
			return tpl, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	candidates := lookupCandidates(key)
	for _, c := range candidates {
		tpl, err := s.repo.Template.GetBySlug(ctx, c)
		if err == nil {
			return tpl, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	for _, c := range candidates {
		tpl, err := s.repo.Template.GetByTitle(ctx, c)
		if err == nil {
			return tpl, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, ErrTemplateNotFound
}
