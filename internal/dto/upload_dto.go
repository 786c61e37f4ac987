package dto

// PresignedURLRequest asks for a URL the client can PUT an image to
// @Description entityType is one of "threads" (card images) or "avatars"
type PresignedURLRequest struct {
	EntityType  string `json:"entityType" binding:"required,oneof=threads avatars" example:"threads"`
	FileName    string `json:"fileName" binding:"required,max=255" example:"card.png"`
	ContentType string `json:"contentType" binding:"required" example:"image/png"`
	FileSize    int64  `json:"fileSize" binding:"required,min=1" example:"204800"`
}

// PresignedURLResponse carries the upload URL and the public URL the image will be served from
type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	FileKey   string `json:"fileKey"`
	ExpiresIn int    `json:"expiresIn" example:"300"`
}
