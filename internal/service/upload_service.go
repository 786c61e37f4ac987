package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vuongngo/reactive-forum-api/internal/client"
	"github.com/vuongngo/reactive-forum-api/internal/dto"
	"github.com/vuongngo/reactive-forum-api/internal/response"
)

// MaxImageSize is the largest image accepted for upload (10MB)
const MaxImageSize = 10 * 1024 * 1024

var (
	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}

	allowedImageExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
)

// UploadService hands out presigned URLs for card images and avatars
type UploadService interface {
	PresignImage(ctx context.Context, userID uuid.UUID, req *dto.PresignedURLRequest) (*dto.PresignedURLResponse, error)
}

type uploadServiceImpl struct {
	s3Client client.S3ClientInterface
	logger   *zap.Logger
}

// NewUploadService creates an UploadService. s3Client may be nil when storage is not configured.
func NewUploadService(s3Client client.S3ClientInterface, logger *zap.Logger) UploadService {
	return &uploadServiceImpl{s3Client: s3Client, logger: logger}
}

func (s *uploadServiceImpl) PresignImage(ctx context.Context, userID uuid.UUID, req *dto.PresignedURLRequest) (*dto.PresignedURLResponse, error) {
	if s.s3Client == nil {
		return nil, response.NewInternalError("Image storage is not configured", "")
	}

	if req.EntityType != client.EntityTypeThreads && req.EntityType != client.EntityTypeAvatars {
		return nil, response.NewValidationError("Invalid entity type", req.EntityType)
	}
	if req.FileSize <= 0 {
		return nil, response.NewValidationError("File size must be greater than 0", "")
	}
	if req.FileSize > MaxImageSize {
		return nil, response.NewValidationError("File size exceeds 10MB limit", "")
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext := strings.ToLower(filepath.Ext(req.FileName))
	if !allowedImageTypes[contentType] || !allowedImageExtensions[ext] {
		return nil, response.NewValidationError("Only jpeg, png, gif and webp images are allowed", contentType+" "+ext)
	}

	uploadURL, fileKey, err := s.s3Client.GeneratePresignedURL(ctx, req.EntityType, userID.String(), req.FileName, contentType)
	if err != nil {
		s.logger.Error("Failed to generate presigned URL", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, response.NewInternalError("Failed to generate presigned URL", err.Error())
	}

	return &dto.PresignedURLResponse{
		UploadURL: uploadURL,
		FileURL:   s.s3Client.GetFileURL(fileKey),
		FileKey:   fileKey,
		ExpiresIn: int(client.PresignExpiry.Seconds()),
	}, nil
}
