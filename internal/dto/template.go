package dto

import "surat-portal/pkg/formschema"

// CreateTemplateRequest POST /templates.
type CreateTemplateRequest struct {
	Slug        string             `json:"slug"        binding:"required,min=2,max=120"`
	Title       string             `json:"title"       binding:"required,min=3,max=255"`
	Description *string            `json:"description"`
	IsActive    *bool              `json:"isActive"`
	Schema      []formschema.Field `json:"schema"      binding:"required"`
}

// UpdateTemplateRequest PATCH /templates/:id; nil fields stay unchanged.
type UpdateTemplateRequest struct {
	Title       *string             `json:"title"       binding:"omitempty,min=3,max=255"`
	Description *string             `json:"description"`
	IsActive    *bool               `json:"isActive"`
	Schema      *[]formschema.Field `json:"schema"`
}

// TemplateResponse a template with its schema.
type TemplateResponse struct {
	ID          string             `json:"id"`
	Slug        string             `json:"slug"`
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	IsActive    bool               `json:"isActive"`
	Schema      []formschema.Field `json:"schema"`
	AuthorID    string             `json:"authorId"`
	CreatedAt   string             `json:"createdAt"`
	UpdatedAt   string             `json:"updatedAt"`
}
