package dto

import (
	"encoding/json"

	"surat-portal/pkg/formschema"
)

// CreateSubmissionRequest POST /submissions. Attachments stays raw: entries
// are filtered one by one instead of failing the whole request.
type CreateSubmissionRequest struct {
	TemplateID  string             `json:"templateId"`
	Title       string             `json:"title"`
	Payload     formschema.Payload `json:"payload"`
	Notes       *string            `json:"notes"`
	Attachments json.RawMessage    `json:"attachments"`
}

// UpdateSubmissionStatusRequest PATCH /submissions/:id.
type UpdateSubmissionStatusRequest struct {
	Status *string `json:"status" binding:"omitempty,submission_status"`
	Notes  *string `json:"notes"`
}

// SubmissionListRequest optional list filters.
type SubmissionListRequest struct {
	TemplateID string `form:"templateId"`
	Status     string `form:"status" binding:"omitempty,submission_status"`
}

// AttachmentResponse one stored attachment.
type AttachmentResponse struct {
	ID       string  `json:"id"`
	URL      string  `json:"url"`
	PublicID string  `json:"publicId"`
	Format   *string `json:"format,omitempty"`
	Bytes    *int64  `json:"bytes,omitempty"`
	Width    *int    `json:"width,omitempty"`
	Height   *int    `json:"height,omitempty"`
	Type     *string `json:"type,omitempty"`
}

// StatusLogResponse one status change.
type StatusLogResponse struct {
	FromStatus  string  `json:"fromStatus"`
	ToStatus    string  `json:"toStatus"`
	ChangedByID string  `json:"changedById"`
	Note        *string `json:"note,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// TemplateSummary the template fields a submission listing needs.
type TemplateSummary struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// SubmissionResponse a submission as returned by the API.
type SubmissionResponse struct {
	ID          string               `json:"id"`
	TemplateID  string               `json:"templateId"`
	Template    *TemplateSummary     `json:"template,omitempty"`
	Title       string               `json:"title"`
	Payload     formschema.Payload   `json:"payload"`
	Notes       *string              `json:"notes,omitempty"`
	Status      string               `json:"status"`
	CreatedByID string               `json:"createdById"`
	CreatedAt   string               `json:"createdAt"`
	UpdatedAt   string               `json:"updatedAt"`
	Attachments []AttachmentResponse `json:"attachments"`
	History     []StatusLogResponse  `json:"history,omitempty"`
}
