package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"pdfstore/internal/apperr"
)

// filesystemStorage implements Storage over a single local directory.
// Every key resolves to one file directly under the root; no sharding.
// It is safe for concurrent use: keys are unique per Put, and writes become
// visible only through an atomic rename.
type filesystemStorage struct {
	root string
}

// NewFilesystem creates a filesystem-backed blob store rooted at dir,
// creating the directory if it does not exist.
func NewFilesystem(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &filesystemStorage{root: dir}, nil
}

// Put writes to a temp file in the root and renames it to the final key, so a
// failed or cancelled write never leaves a partial blob visible.
func (s *filesystemStorage) Put(ctx context.Context, displayName string, r io.Reader) (PutResult, error) {
	const op = "storage.Put"

	key := newStorageKey(displayName)

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return PutResult{}, &apperr.Error{Kind: apperr.KindIOFailure, Op: op, Key: key, Err: err}
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, readerWithContext(ctx, r))
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return PutResult{}, &apperr.Error{Kind: apperr.KindIOFailure, Op: op, Key: key, Err: err}
	}

	if err := os.Rename(tmpName, filepath.Join(s.root, key)); err != nil {
		_ = os.Remove(tmpName)
		return PutResult{}, &apperr.Error{Kind: apperr.KindIOFailure, Op: op, Key: key, Err: err}
	}

	return PutResult{Key: key, Size: n}, nil
}

func (s *filesystemStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	const op = "storage.Get"

	f, err := os.Open(filepath.Join(s.root, filepath.Base(key)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &apperr.Error{Kind: apperr.KindNotFound, Op: op, Key: key, Err: err}
		}
		return nil, &apperr.Error{Kind: apperr.KindIOFailure, Op: op, Key: key, Err: err}
	}
	return f, nil
}

func (s *filesystemStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.root, filepath.Base(key)))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &apperr.Error{Kind: apperr.KindIOFailure, Op: "storage.Exists", Key: key, Err: err}
}

func (s *filesystemStorage) Remove(ctx context.Context, key string) error {
	const op = "storage.Remove"

	if err := os.Remove(filepath.Join(s.root, filepath.Base(key))); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &apperr.Error{Kind: apperr.KindNotFound, Op: op, Key: key, Err: err}
		}
		return &apperr.Error{Kind: apperr.KindIOFailure, Op: op, Key: key, Err: err}
	}
	return nil
}

// readerWithContext aborts the copy when ctx is cancelled, so an interrupted
// upload stops writing instead of draining a dead connection.
func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
