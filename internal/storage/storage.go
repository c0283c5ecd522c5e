package storage

import (
	"context"
	"fmt"
	"io"

	"pdfstore/internal/config"
)

// Package storage contains the blob store abstraction and its backends.
// Blobs are addressed by an opaque storage key the backend assigns on Put;
// the key is never reused, even after deletion.

// PutResult describes a successfully stored blob.
type PutResult struct {
	// Key is the collision-free storage key assigned to the blob.
	Key string
	// Size is the actual number of bytes written, regardless of what the caller declared.
	Size int64
}

// Storage is the blob store contract shared by all backends.
// Implementations must be safe for concurrent use and must never leave a
// partially written blob visible after a failed Put.
type Storage interface {
	// Put streams the content to durable storage under a freshly generated key.
	// displayName is used only to derive a human-traceable key; it is not an address.
	Put(ctx context.Context, displayName string, r io.Reader) (PutResult, error)
	// Get opens the blob at key for reading. Fails with a not-found error when absent.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Exists is a non-failing existence probe, used to detect drift between
	// metadata and the blob store.
	Exists(ctx context.Context, key string) (bool, error)
	// Remove deletes the blob at key. Fails with a not-found error when already
	// absent; callers treat that as non-fatal during cleanup.
	Remove(ctx context.Context, key string) error
}

// New constructs the blob store backend selected by cfg.Backend.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case "", "filesystem":
		return NewFilesystem(cfg.UploadDir)
	case "minio":
		return NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
