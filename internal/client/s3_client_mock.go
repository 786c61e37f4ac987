package client

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// MockS3Client implements S3ClientInterface for testing without AWS credentials
type MockS3Client struct {
	Bucket   string
	Region   string
	Endpoint string

	GenerateFileKeyFunc      func(entityType, ownerID, fileExt string) (string, error)
	GeneratePresignedURLFunc func(ctx context.Context, entityType, ownerID, fileName, contentType string) (string, string, error)
	DeleteFileFunc           func(ctx context.Context, key string) error
	GetFileURLFunc           func(key string) string
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket: "test-bucket",
		Region: "ap-northeast-2",
	}
}

func (m *MockS3Client) GenerateFileKey(entityType, ownerID, fileExt string) (string, error) {
	if m.GenerateFileKeyFunc != nil {
		return m.GenerateFileKeyFunc(entityType, ownerID, fileExt)
	}
	return generateFileKey(time.Now(), entityType, ownerID, fileExt)
}

func (m *MockS3Client) GeneratePresignedURL(ctx context.Context, entityType, ownerID, fileName, contentType string) (string, string, error) {
	if m.GeneratePresignedURLFunc != nil {
		return m.GeneratePresignedURLFunc(ctx, entityType, ownerID, fileName, contentType)
	}

	fileKey, err := m.GenerateFileKey(entityType, ownerID, filepath.Ext(fileName))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate file key: %w", err)
	}

	presignedURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Expires=%d&X-Amz-Signature=mocksignature",
		m.Bucket, m.Region, fileKey, int(PresignExpiry.Seconds()))
	return presignedURL, fileKey, nil
}

func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	return nil
}

func (m *MockS3Client) GetFileURL(key string) string {
	if m.GetFileURLFunc != nil {
		return m.GetFileURLFunc(key)
	}
	return fileURL(m.Endpoint, m.Bucket, m.Region, key)
}

// Ensure MockS3Client implements S3ClientInterface
var _ S3ClientInterface = (*MockS3Client)(nil)
