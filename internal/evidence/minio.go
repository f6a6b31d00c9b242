package evidence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mtlprog/workdesk/internal/domain"
)

// MinioConfig holds the S3-compatible storage connection settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore reads evidence objects from an S3-compatible bucket, keyed by file id.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore creates a client for cfg. It does not contact the server.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	slog.Info("evidence storage configured", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// Open stats the object and opens a reader on it.
func (s *MinioStore) Open(ctx context.Context, fileID string) (*Object, error) {
	info, err := s.client.StatObject(ctx, s.bucket, fileID, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", domain.ErrEvidenceNotFound, fileID)
		}
		return nil, fmt.Errorf("stat evidence %s: %w", fileID, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, fileID, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get evidence %s: %w", fileID, err)
	}

	return &Object{Body: obj, Size: info.Size, ContentType: info.ContentType}, nil
}
