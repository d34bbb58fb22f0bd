package service

import (
	"time"

	"surat-portal/internal/model"
)

// Actor is the authenticated caller as carried by the session.
type Actor struct {
	ID    string
	Email string
	Name  string
	Role  model.Role
}

// IsAdmin reports whether the caller is staff. A nil actor is not.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == model.RoleAdmin
}

// isoTime formats timestamps as ISO 8601 UTC with milliseconds.
func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
