package dto

// ── auth requests ──

// LoginRequest login body.
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// ── auth responses ──

// SessionUserResponse the identity carried by a session.
type SessionUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginResponse login result; the token is also set as a cookie.
type LoginResponse struct {
	Token     string              `json:"token"`
	ExpiresIn int                 `json:"expiresIn"` // seconds
	User      SessionUserResponse `json:"user"`
}
