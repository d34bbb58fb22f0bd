package model

import "time"

// SubmissionStatusLog table submission_status_logs: one row per status change.
type SubmissionStatusLog struct {
	ID           string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SubmissionID string           `gorm:"type:uuid;not null;index"                       json:"submissionId"`
	FromStatus   SubmissionStatus `gorm:"type:varchar(20);not null"                      json:"fromStatus"`
	ToStatus     SubmissionStatus `gorm:"type:varchar(20);not null"                      json:"toStatus"`
	ChangedByID  string           `gorm:"type:uuid;not null"                             json:"changedById"`
	Note         *string          `gorm:"type:text"                                      json:"note,omitempty"`
	CreatedAt    time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
}

// TableName table name.
func (SubmissionStatusLog) TableName() string { return "submission_status_logs" }
