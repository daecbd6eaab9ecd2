package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudvault/backend/internal/config"
	"github.com/cloudvault/backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStore is the S3-compatible blob backend. Object keys follow the same
// owner-scoped layout as LocalStore.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOStore(cfg config.MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MinIOStore{client: client, bucket: cfg.Bucket}, nil
}

func (m *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed creating bucket %s: %w", m.bucket, err)
	}
	return nil
}

func (m *MinIOStore) Encrypted() bool {
	return false
}

func (m *MinIOStore) Put(ctx context.Context, ownerID string, ext string, reader io.Reader) (string, int64, error) {
	objectName := ownerID + "/" + uuid.New().String() + ext

	if _, err := m.client.StatObject(ctx, m.bucket, objectName, minio.StatObjectOptions{}); err == nil {
		return "", 0, fmt.Errorf("%w: %s", ErrBlobExists, objectName)
	} else if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return "", 0, fmt.Errorf("failed checking object: %w", err)
	}

	info, err := m.client.PutObject(ctx, m.bucket, objectName, reader, -1, minio.PutObjectOptions{})
	if err != nil {
		logger.Error("minio_upload_failed", err, map[string]interface{}{
			"object_name": objectName,
			"bucket":      m.bucket,
		})
		return "", 0, fmt.Errorf("failed uploading object: %w", err)
	}

	return objectName, info.Size, nil
}

func (m *MinIOStore) Open(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, storagePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed opening object: %w", err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, storagePath)
		}
		return nil, fmt.Errorf("failed reading object metadata: %w", err)
	}
	return obj, nil
}

func (m *MinIOStore) Delete(ctx context.Context, storagePath string) (bool, error) {
	existed, err := m.Exists(ctx, storagePath)
	if err != nil {
		return false, err
	}

	if err := m.client.RemoveObject(ctx, m.bucket, storagePath, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("failed deleting object: %w", err)
	}
	return existed, nil
}

func (m *MinIOStore) Exists(ctx context.Context, storagePath string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, storagePath, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed checking object: %w", err)
	}
	return true, nil
}
