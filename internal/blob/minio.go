package blob

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"hottakes/internal/config"
)

// MinioStore is the S3-compatible object store implementation.
type MinioStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMinioStore connects to the configured endpoint and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.BlobEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.BlobAccessKey, cfg.BlobSecretKey, ""),
		Secure: cfg.BlobUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BlobBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.BlobBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BlobBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.BlobBucket, err)
		}
	}

	publicBase := cfg.BlobPublicBaseURL
	if publicBase == "" {
		scheme := "http"
		if cfg.BlobUseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s", scheme, cfg.BlobEndpoint)
	}

	return &MinioStore{
		client:        client,
		bucket:        cfg.BlobBucket,
		publicBaseURL: publicBase,
	}, nil
}

// Upload stores the object, overwriting any existing one at the same path.
func (s *MinioStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=3600",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %q: %w", path, err)
	}
	return nil
}

// PublicURL returns the public address of an uploaded object.
func (s *MinioStore) PublicURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, path)
}
