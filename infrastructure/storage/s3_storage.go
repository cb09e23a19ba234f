package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"loft-shop/domain/ports"
	"loft-shop/pkg/logger"
)

// S3Storage implements StoragePort สำหรับ S3-Compatible Storage (MinIO / Cloudflare R2)
type S3Storage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	endpoint  string
	useSSL    bool
}

type S3StorageConfig struct {
	Endpoint  string // minio:9000 หรือ xxx.r2.cloudflarestorage.com
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	PublicURL string // URL สำหรับเข้าถึงไฟล์ public (optional)
}

var _ ports.StoragePort = (*S3Storage)(nil)

// NewMinioClient สร้าง minio client (ใช้ร่วมกับ cmd/setup-bucket)
func NewMinioClient(config S3StorageConfig) (*minio.Client, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return client, nil
}

// NewS3Storage สร้าง S3Storage instance และสร้าง bucket ถ้ายังไม่มี
func NewS3Storage(config S3StorageConfig) (*S3Storage, error) {
	client, err := NewMinioClient(config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{
			Region: config.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("S3 bucket created", "bucket", config.Bucket)
	}

	logger.Info("S3 storage initialized",
		"endpoint", config.Endpoint,
		"bucket", config.Bucket,
		"ssl", config.UseSSL,
	)

	return &S3Storage{
		client:    client,
		bucket:    config.Bucket,
		publicURL: strings.TrimSuffix(config.PublicURL, "/"),
		endpoint:  config.Endpoint,
		useSSL:    config.UseSSL,
	}, nil
}

func normalizeKey(key string) string {
	return strings.TrimPrefix(strings.ReplaceAll(key, "\\", "/"), "/")
}

// UploadFile อัปโหลดไฟล์ไปยัง S3 (size = -1 ให้ minio stream จนจบ)
func (s *S3Storage) UploadFile(ctx context.Context, file io.Reader, key string, size int64, contentType string) (string, error) {
	key = normalizeKey(key)

	_, err := s.client.PutObject(ctx, s.bucket, key, file, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	logger.DebugContext(ctx, "File uploaded to S3", "key", key, "content_type", contentType)
	return s.GetFileURL(key), nil
}

// DeleteFile ลบไฟล์จาก S3
func (s *S3Storage) DeleteFile(ctx context.Context, key string) error {
	key = normalizeKey(key)

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.DebugContext(ctx, "File deleted from S3", "key", key)
	return nil
}

// GetFileURL สร้าง URL สำหรับเข้าถึงไฟล์
func (s *S3Storage) GetFileURL(key string) string {
	key = normalizeKey(key)

	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}

func (s *S3Storage) GetProviderName() string {
	return "s3"
}
