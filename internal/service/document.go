package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"time"

	"pdfstore/internal/apperr"
	"pdfstore/internal/config"
	"pdfstore/internal/model"
	"pdfstore/internal/repository"
	"pdfstore/internal/storage"
)

// AcceptedMimeType is the only content type uploads may declare.
const AcceptedMimeType = "application/pdf"

var (
	ErrReaderNil = errors.New("reader is nil")

	errBlobMissing = errors.New("blob missing for existing record")
)

// DocumentService defines the use cases for handling documents. It is the sole
// writer of both the blob store and the metadata repository; nothing else may
// create, mutate or delete a record or a blob.
type DocumentService interface {
	// Upload validates the claimed type and size, persists the content to the
	// blob store under a fresh key, then creates the metadata record. The blob
	// is removed again (best effort) if the record cannot be created.
	Upload(ctx context.Context, r io.Reader, filename string, contentType string, declaredSize int64) (*model.Document, error)

	// List returns all documents, newest first.
	List(ctx context.Context) ([]model.Document, error)

	// Download returns the record and a reader over its blob content.
	// The caller owns closing the reader.
	Download(ctx context.Context, id int64) (*model.Document, io.ReadCloser, error)

	// Delete removes a document's blob and record. An already-missing blob is
	// tolerated; any other blob failure keeps the record intact.
	Delete(ctx context.Context, id int64) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store    storage.Storage
	repo     repository.DocumentRepository
	maxBytes int64
}

// NewDocumentService constructs a new DocumentService with the given upload
// size ceiling in bytes. A non-positive ceiling falls back to the default.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, maxUploadBytes int64) DocumentService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = config.DefaultMaxUploadBytes
	}
	return &documentService{store: store, repo: repo, maxBytes: maxUploadBytes}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, filename string, contentType string, declaredSize int64) (*model.Document, error) {
	const op = "service.Upload"

	if r == nil {
		return nil, ErrReaderNil
	}

	// Multipart headers may carry parameters ("application/pdf; name=x");
	// compare the media type alone.
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}
	if contentType != AcceptedMimeType {
		return nil, &apperr.Error{
			Kind: apperr.KindInvalidType,
			Op:   op,
			Err:  fmt.Errorf("content type %q is not accepted, only %s", contentType, AcceptedMimeType),
		}
	}

	if declaredSize > s.maxBytes {
		return nil, &apperr.Error{
			Kind: apperr.KindTooLarge,
			Op:   op,
			Err:  fmt.Errorf("declared size %d exceeds limit of %d bytes", declaredSize, s.maxBytes),
		}
	}

	// Read at most one byte past the ceiling so a caller lying about the size
	// is caught without draining an arbitrarily large stream.
	res, err := s.store.Put(ctx, filename, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, err
	}

	if res.Size > s.maxBytes {
		s.removeOrWarn(ctx, res.Key, errors.New("size limit exceeded"))
		return nil, &apperr.Error{
			Kind: apperr.KindTooLarge,
			Op:   op,
			Err:  fmt.Errorf("content exceeds limit of %d bytes", s.maxBytes),
		}
	}

	// The record carries the actual byte count, not the caller-declared size.
	doc := &model.Document{
		Filename: filename,
		FilePath: res.Key,
		FileSize: res.Size,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		s.removeOrWarn(ctx, res.Key, err)
		return nil, &apperr.Error{Kind: apperr.KindPersistence, Op: op, Key: res.Key, Err: err}
	}
	return stored, nil
}

// List returns all documents ordered newest first.
func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindPersistence, Op: "service.List", Err: err}
	}
	return docs, nil
}

// Download fetches the record, then opens its blob for streaming.
func (s *documentService) Download(ctx context.Context, id int64) (*model.Document, io.ReadCloser, error) {
	const op = "service.Download"

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, &apperr.Error{Kind: apperr.KindNotFound, Op: op, ID: id, Err: err}
		}
		return nil, nil, &apperr.Error{Kind: apperr.KindPersistence, Op: op, ID: id, Err: err}
	}

	rc, err := s.store.Get(ctx, doc.FilePath)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			// Drift: record present, blob gone. Surface it as not-found rather
			// than a low-level I/O error; the record stays so Delete can
			// resolve the inconsistency explicitly.
			return nil, nil, &apperr.Error{Kind: apperr.KindNotFound, Op: op, ID: id, Key: doc.FilePath, Err: errBlobMissing}
		}
		return nil, nil, err
	}
	return doc, rc, nil
}

// Delete removes the blob first, then the record. A blob that is already gone
// does not block the delete; any other blob failure keeps the record visible.
func (s *documentService) Delete(ctx context.Context, id int64) error {
	const op = "service.Delete"

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &apperr.Error{Kind: apperr.KindNotFound, Op: op, ID: id, Err: err}
		}
		return &apperr.Error{Kind: apperr.KindPersistence, Op: op, ID: id, Err: err}
	}

	if err := s.store.Remove(ctx, doc.FilePath); err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &apperr.Error{Kind: apperr.KindNotFound, Op: op, ID: id, Err: err}
		}
		return &apperr.Error{Kind: apperr.KindPersistence, Op: op, ID: id, Err: err}
	}
	return nil
}

// removeOrWarn is the compensating action after a blob was written but no
// record will reference it. A failed removal leaves an orphaned blob behind;
// that is logged and the caller's original error still propagates.
func (s *documentService) removeOrWarn(ctx context.Context, key string, cause error) {
	err := s.store.Remove(ctx, key)
	if err == nil || apperr.IsKind(err, apperr.KindNotFound) {
		return
	}
	entry := map[string]any{
		"ts":           time.Now().UTC().Format(time.RFC3339Nano),
		"level":        "warn",
		"msg":          "orphaned_blob",
		"storage_key":  key,
		"cause":        cause.Error(),
		"remove_error": err.Error(),
	}
	if b, merr := json.Marshal(entry); merr == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
