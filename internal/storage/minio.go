package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pdfstore/internal/apperr"
	"pdfstore/internal/config"
)

// minioStorage implements Storage on an S3-compatible backend (MinIO, AWS S3, etc.).
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates an S3-compatible blob store backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStorage{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

// Put uploads the blob under a freshly generated key using streaming I/O only.
// Size -1 lets the client chunk the stream; the returned UploadInfo carries the
// actual byte count.
func (m *minioStorage) Put(ctx context.Context, displayName string, r io.Reader) (PutResult, error) {
	key := newStorageKey(displayName)

	info, err := m.client.PutObject(ctx, m.bucket, key, r, -1, minio.PutObjectOptions{
		ContentType: "application/pdf",
		UserMetadata: map[string]string{
			"original-filename": displayName,
		},
	})
	if err != nil {
		return PutResult{}, &apperr.Error{Kind: apperr.KindIOFailure, Op: "storage.Put", Key: key, Err: err}
	}
	return PutResult{Key: key, Size: info.Size}, nil
}

// Get opens the blob content as a streaming reader.
func (m *minioStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	const op = "storage.Get"

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindIOFailure, Op: op, Key: key, Err: err}
	}
	// GetObject is lazy; Stat forces the first request so a missing key
	// surfaces here instead of on the first Read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, &apperr.Error{Kind: apperr.KindNotFound, Op: op, Key: key, Err: err}
		}
		return nil, &apperr.Error{Kind: apperr.KindIOFailure, Op: op, Key: key, Err: err}
	}
	return obj, nil
}

func (m *minioStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNoSuchKey(err) {
		return false, nil
	}
	return false, &apperr.Error{Kind: apperr.KindIOFailure, Op: "storage.Exists", Key: key, Err: err}
}

// Remove deletes the blob. S3 DeleteObject succeeds on missing keys, so a Stat
// runs first to honor the contract that removing an absent blob reports not-found.
func (m *minioStorage) Remove(ctx context.Context, key string) error {
	const op = "storage.Remove"

	if _, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return &apperr.Error{Kind: apperr.KindNotFound, Op: op, Key: key, Err: err}
		}
		return &apperr.Error{Kind: apperr.KindIOFailure, Op: op, Key: key, Err: err}
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return &apperr.Error{Kind: apperr.KindIOFailure, Op: op, Key: key, Err: err}
	}
	return nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
