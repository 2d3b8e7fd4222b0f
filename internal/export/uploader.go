package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rmarques/stocklens/internal/config"
	"github.com/rmarques/stocklens/pkg/logger"
)

var log = logger.WithComponent("export")

// ObjectStorage is the report sink. The production implementation talks
// to an S3-compatible store; tests swap in a recorder.
type ObjectStorage interface {
	Upload(ctx context.Context, objectName string, payload []byte, contentType string) (string, error)
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewObjectStorage connects to the configured S3-compatible endpoint and
// ensures the report bucket exists.
func NewObjectStorage(cfg config.ExportConfig) (ObjectStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating object storage client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &minioStorage{client: client, bucket: cfg.Bucket}, nil
}

func (s *minioStorage) Upload(ctx context.Context, objectName string, payload []byte, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", objectName, err)
	}

	log.Info().
		Str("bucket", s.bucket).
		Str("object", objectName).
		Int64("size", info.Size).
		Msg("Report uploaded")

	return fmt.Sprintf("%s/%s", s.bucket, objectName), nil
}

// ReportName builds a timestamped object name for one report kind.
func ReportName(kind string, at time.Time) string {
	return fmt.Sprintf("%s/%s.csv", kind, at.UTC().Format("2006-01-02T15-04-05"))
}
