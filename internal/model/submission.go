package model

import "surat-portal/pkg/formschema"

// SubmissionStatus is the workflow state of a letter request.
type SubmissionStatus string

const (
	StatusDraft     SubmissionStatus = "DRAFT"
	StatusInReview  SubmissionStatus = "IN_REVIEW"
	StatusApproved  SubmissionStatus = "APPROVED"
	StatusRejected  SubmissionStatus = "REJECTED"
	StatusSent      SubmissionStatus = "SENT"
	StatusCancelled SubmissionStatus = "CANCELLED"
)

// AllStatuses lists every status in workflow order.
var AllStatuses = []SubmissionStatus{
	StatusDraft, StatusInReview, StatusApproved, StatusRejected, StatusSent, StatusCancelled,
}

// Valid reports whether s is one of AllStatuses.
func (s SubmissionStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is expected in normal flow.
// Terminal states are not locked.
func (s SubmissionStatus) Terminal() bool {
	return s == StatusSent || s == StatusCancelled
}

// LetterSubmission table letter_submissions. Title is copied from the
// template at creation and does not follow later template edits.
type LetterSubmission struct {
	ID          string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TemplateID  string             `gorm:"type:uuid;not null;index"                       json:"templateId"`
	Title       string             `gorm:"type:varchar(255);not null"                     json:"title"`
	Payload     formschema.Payload `gorm:"type:json;not null"                             json:"payload"`
	Notes       *string            `gorm:"type:text"                                      json:"notes,omitempty"`
	Status      SubmissionStatus   `gorm:"type:varchar(20);not null;default:'IN_REVIEW'"  json:"status"`
	CreatedByID string             `gorm:"type:uuid;not null;index"                       json:"createdById"`
	Timestamps

	Template    *FormTemplate          `gorm:"foreignKey:TemplateID"   json:"template,omitempty"`
	CreatedBy   *User                  `gorm:"foreignKey:CreatedByID"  json:"createdBy,omitempty"`
	Attachments []SubmissionAttachment `gorm:"foreignKey:SubmissionID" json:"attachments"`
	StatusLogs  []SubmissionStatusLog  `gorm:"foreignKey:SubmissionID" json:"statusLogs,omitempty"`
}

// TableName table name.
func (LetterSubmission) TableName() string { return "letter_submissions" }
