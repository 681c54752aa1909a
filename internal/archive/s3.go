package archive

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/JBLarson/dayAndNight/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SnapshotArchiver uploads export snapshots to S3-compatible storage.
type SnapshotArchiver struct {
	client *minio.Client
	bucket string
}

// NewSnapshotArchiver connects to the configured endpoint. Returns nil, nil
// when no endpoint is configured (archiving disabled, graceful degradation).
func NewSnapshotArchiver(cfg config.MinioConfig) (*SnapshotArchiver, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("archiving requires MINIO_ACCESS_KEY, MINIO_SECRET_KEY and MINIO_BUCKET")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	log.Println("[archive] connected to MinIO endpoint:", cfg.Endpoint)
	return &SnapshotArchiver{client: client, bucket: cfg.Bucket}, nil
}

func (a *SnapshotArchiver) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}
	return nil
}

// Upload stores one JSON snapshot under the given object name.
func (a *SnapshotArchiver) Upload(ctx context.Context, name string, payload []byte) error {
	if err := a.ensureBucket(ctx); err != nil {
		return err
	}

	_, err := a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", name, err)
	}
	return nil
}
