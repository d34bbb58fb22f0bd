package model

// Role of a portal user.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStudent Role = "MAHASISWA"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// User table users.
type User struct {
	ID            string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name          string  `gorm:"type:varchar(120);not null"                     json:"name"`
	Email         string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash  string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role          Role    `gorm:"type:varchar(20);not null;default:'MAHASISWA'"  json:"role"`
	StudentNumber *string `gorm:"type:varchar(30)"                               json:"studentNumber,omitempty"`
	AvatarURL     *string `gorm:"type:text"                                      json:"avatarUrl,omitempty"`
	IsActive      bool    `gorm:"not null"                                       json:"isActive"`
	Timestamps
}

// TableName table name.
func (User) TableName() string { return "users" }
