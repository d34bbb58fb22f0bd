package repository

import "gorm.io/gorm"

// Repository aggregates the data access interfaces.
type Repository struct {
	User       UserRepository
	Template   TemplateRepository
	Submission SubmissionRepository
}

// NewRepository wires the GORM implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Template:   NewTemplateRepo(db),
		Submission: NewSubmissionRepo(db),
	}
}
