package model

import (
	"gorm.io/datatypes"

	"surat-portal/pkg/formschema"
)

// FormTemplate table form_templates. Schema is the ordered field list.
type FormTemplate struct {
	ID          string                               `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Slug        string                               `gorm:"type:varchar(120);not null;uniqueIndex"         json:"slug"`
	Title       string                               `gorm:"type:varchar(255);not null"                     json:"title"`
	Description *string                              `gorm:"type:text"                                      json:"description,omitempty"`
	IsActive    bool                                 `gorm:"not null"                                       json:"isActive"`
	Schema      datatypes.JSONSlice[formschema.Field] `gorm:"type:jsonb;not null"                            json:"schema"`
	AuthorID    string                               `gorm:"type:uuid;not null"                             json:"authorId"`
	Timestamps
}

// TableName table name.
func (FormTemplate) TableName() string { return "form_templates" }

// Fields returns the schema as a plain slice.
func (t *FormTemplate) Fields() []formschema.Field {
	return []formschema.Field(t.Schema)
}
