package dto

// SignUploadRequest POST /uploads/sign.
type SignUploadRequest struct {
	Folder   string `json:"folder"    binding:"omitempty,max=120"`
	PublicID string `json:"public_id" binding:"omitempty,max=255"`
}
