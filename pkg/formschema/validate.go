package formschema

import (
	"fmt"
	"strings"

	apperrors "surat-portal/pkg/errors"
)

const (
	msgRequired      = "wajib diisi"
	msgInvalidOption = "pilihan tidak valid"
)

// ValidatePayload checks every schema field against payload and returns the
// per-field failures, or nil when the payload is acceptable. Keys that are
// not in the schema are ignored.
func ValidatePayload(fields []Field, payload *Payload) *apperrors.ValidationError {
	ve := apperrors.NewValidationError("data formulir tidak valid")
	for _, f := range fields {
		value, _ := payload.Get(f.ID)
		switch ValidateFieldValue(f, value) {
		case Missing:
			ve.Add(f.ID, fieldMessage(f, msgRequired))
		case InvalidOption:
			ve.Add(f.ID, fieldMessage(f, msgInvalidOption))
		}
	}
	if !ve.HasErrors() {
		return nil
	}
	return ve
}

func fieldMessage(f Field, msg string) string {
	if f.Label == "" {
		return msg
	}
	return f.Label + " " + msg
}

// ValidateSchema checks a template's field list: every field needs an id,
// a label and a type, and ids must be unique. Failures are keyed
// "schema[i].attr".
func ValidateSchema(fields []Field) *apperrors.ValidationError {
	ve := apperrors.NewValidationError("skema formulir tidak valid")
	seen := make(map[string]int, len(fields))

	for i, f := range fields {
		prefix := fmt.Sprintf("schema[%d]", i)
		if strings.TrimSpace(f.ID) == "" {
			ve.Add(prefix+".id", "id wajib diisi")
		} else if first, dup := seen[f.ID]; dup {
			ve.Add(prefix+".id", fmt.Sprintf("id %q sudah dipakai oleh schema[%d]", f.ID, first))
		} else {
			seen[f.ID] = i
		}
		if strings.TrimSpace(f.Label) == "" {
			ve.Add(prefix+".label", "label wajib diisi")
		}
		if strings.TrimSpace(string(f.Type)) == "" {
			ve.Add(prefix+".type", "type wajib diisi")
		}
	}

	if !ve.HasErrors() {
		return nil
	}
	return ve
}
