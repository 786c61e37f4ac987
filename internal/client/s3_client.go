package client

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appConfig "github.com/vuongngo/reactive-forum-api/internal/config"
)

// PresignExpiry is how long an upload URL stays valid
const PresignExpiry = 5 * time.Minute

// Image entity types accepted for uploads
const (
	EntityTypeThreads = "threads"
	EntityTypeAvatars = "avatars"
)

// S3ClientInterface defines the interface for image storage operations
type S3ClientInterface interface {
	GenerateFileKey(entityType, ownerID, fileExt string) (string, error)
	GeneratePresignedURL(ctx context.Context, entityType, ownerID, fileName, contentType string) (string, string, error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
}

// S3Client wraps AWS S3 client and implements S3ClientInterface
type S3Client struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	region        string
	endpoint      string // MinIO 등 S3 호환 스토리지 사용 시 설정
}

// NewS3Client creates a new S3 client
func NewS3Client(cfg *appConfig.S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	} else if cfg.Endpoint != "" {
		return nil, fmt.Errorf("access key and secret key are required for a custom S3 endpoint")
	}

	// Without static keys the default chain applies (IAM role, ~/.aws/credentials)
	awsCfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      cfg.Endpoint,
	}, nil
}

// GenerateFileKey generates a unique S3 file key
// Format: forum/{entityType}/{ownerId}/{year}/{month}/{uuid}_{timestamp}.ext
func (c *S3Client) GenerateFileKey(entityType, ownerID, fileExt string) (string, error) {
	return generateFileKey(time.Now(), entityType, ownerID, fileExt)
}

func generateFileKey(now time.Time, entityType, ownerID, fileExt string) (string, error) {
	if entityType != EntityTypeThreads && entityType != EntityTypeAvatars {
		return "", fmt.Errorf("invalid entity type: %s (must be '%s' or '%s')", entityType, EntityTypeThreads, EntityTypeAvatars)
	}
	if ownerID == "" {
		return "", fmt.Errorf("owner id is required")
	}

	return fmt.Sprintf("forum/%s/%s/%s/%s/%s_%d%s",
		entityType, ownerID, now.Format("2006"), now.Format("01"),
		uuid.New().String(), now.Unix(), strings.ToLower(fileExt)), nil
}

// GeneratePresignedURL returns a presigned PUT URL and the key the object will be stored under
func (c *S3Client) GeneratePresignedURL(ctx context.Context, entityType, ownerID, fileName, contentType string) (string, string, error) {
	fileKey, err := c.GenerateFileKey(entityType, ownerID, filepath.Ext(fileName))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate file key: %w", err)
	}

	presignedReq, err := c.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(fileKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedReq.URL, fileKey, nil
}

// DeleteFile deletes a file from S3
func (c *S3Client) DeleteFile(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// GetFileURL returns the public URL for a key
func (c *S3Client) GetFileURL(key string) string {
	return fileURL(c.endpoint, c.bucket, c.region, key)
}

func fileURL(endpoint, bucket, region, key string) string {
	if endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(endpoint, "/"), bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
