package repository

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

import (
	"context"

	"pdfstore/internal/model"
)

// DocumentRepository defines data access for document records using SQL queries only.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record. The database assigns ID, CreatedAt
	// and UpdatedAt; the caller provides Filename, FilePath and FileSize.
	// Returns the stored document including the DB-assigned values.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID. Returns sql.ErrNoRows when absent.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// List returns all documents ordered by creation time descending, ties
	// broken by id descending. An empty table yields an empty slice, not an error.
	List(ctx context.Context) ([]model.Document, error)

	// Delete removes a document by ID. Returns sql.ErrNoRows when no row was
	// deleted, so callers can distinguish an already-gone record.
	Delete(ctx context.Context, id int64) error
}
