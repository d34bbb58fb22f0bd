package model

import "time"

// SubmissionAttachment table submission_attachments: metadata of one file
// uploaded to the media host. Position keeps the submitted order.
type SubmissionAttachment struct {
	ID           string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SubmissionID string    `gorm:"type:uuid;not null;index"                       json:"submissionId"`
	Position     int       `gorm:"not null;default:0"                             json:"position"`
	URL          string    `gorm:"type:text;not null"                             json:"url"`
	PublicID     string    `gorm:"type:varchar(255);not null"                     json:"publicId"`
	Format       *string   `gorm:"type:varchar(40)"                               json:"format,omitempty"`
	Bytes        *int64    `                                                      json:"bytes,omitempty"`
	Width        *int      `                                                      json:"width,omitempty"`
	Height       *int      `                                                      json:"height,omitempty"`
	Type         *string   `gorm:"type:varchar(40)"                               json:"type,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
}

// TableName table name.
func (SubmissionAttachment) TableName() string { return "submission_attachments" }
