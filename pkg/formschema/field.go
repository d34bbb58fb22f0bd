// Package formschema describes the inputs of a letter template and checks
// submitted values against them.
package formschema

import (
	"encoding/json"
	"strings"
)

// FieldType is the kind of input a field renders as. The set is closed;
// any other tag decodes as an unknown type that behaves like text.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeTextarea FieldType = "textarea"
	TypeSelect   FieldType = "select"
	TypeDate     FieldType = "date"
	TypeFile     FieldType = "file"
)

// Known reports whether t is one of the interpreted types.
func (t FieldType) Known() bool {
	switch t {
	case TypeText, TypeTextarea, TypeSelect, TypeDate, TypeFile:
		return true
	}
	return false
}

// Effective is the type used for validation: unknown tags act as text.
// The raw tag is kept on the field so it round-trips unchanged.
func (t FieldType) Effective() FieldType {
	if t.Known() {
		return t
	}
	return TypeText
}

// Field is one input of a template. ID is the payload key.
type Field struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	HelperText  string    `json:"helperText,omitempty"`
	Options     []string  `json:"options,omitempty"`
}

// Result is the outcome of checking one value against one field.
type Result int

const (
	OK Result = iota
	Missing
	InvalidOption
)

func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case Missing:
		return "missing"
	case InvalidOption:
		return "invalid_option"
	}
	return "unknown"
}

// ValidateFieldValue checks value against f. A nil value means the key was
// absent from the payload. Pure; never fails.
func ValidateFieldValue(f Field, value any) Result {
	empty := IsEmpty(value)
	if empty {
		if f.Required {
			return Missing
		}
		return OK
	}

	if f.Type.Effective() == TypeSelect && len(f.Options) > 0 {
		s, ok := value.(string)
		if !ok || !containsExact(f.Options, s) {
			return InvalidOption
		}
	}

	// file values are opaque URL lists produced by the upload flow.
	return OK
}

// IsEmpty reports whether value counts as not filled in: absent, null, a
// blank string or an empty sequence.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case json.RawMessage:
		s := strings.TrimSpace(string(v))
		return s == "" || s == "null" || s == `""` || s == "[]"
	}
	return false
}

func containsExact(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
