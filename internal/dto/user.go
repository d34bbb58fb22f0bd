package dto

// CreateUserRequest account creation by an admin (or the very first user).
type CreateUserRequest struct {
	Name          string `json:"name"          binding:"required,min=2,max=120"`
	Email         string `json:"email"         binding:"required,email"`
	Password      string `json:"password"      binding:"required,min=6"`
	Role          string `json:"role"          binding:"required,oneof=ADMIN MAHASISWA"`
	StudentNumber string `json:"studentNumber" binding:"omitempty,max=30"`
}

// PasswordChange current and next password for a profile update.
type PasswordChange struct {
	Current string `json:"current" binding:"required"`
	Next    string `json:"next"    binding:"required,min=8"`
}

// UpdateProfileRequest PATCH /me. AvatarURL set to "" clears the avatar.
type UpdateProfileRequest struct {
	Name      *string         `json:"name"      binding:"omitempty,min=2,max=120"`
	AvatarURL *string         `json:"avatarUrl" binding:"omitempty,url"`
	Password  *PasswordChange `json:"password"`
}

// UserResponse public view of a user.
type UserResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	StudentNumber *string `json:"studentNumber,omitempty"`
	AvatarURL     *string `json:"avatarUrl,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// CreateUserResponse includes whether this was the bootstrap account.
type CreateUserResponse struct {
	User      UserResponse `json:"user"`
	Bootstrap bool         `json:"bootstrap"`
}
