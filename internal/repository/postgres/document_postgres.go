package postgres

import (
	"context"
	"database/sql"

	"pdfstore/internal/model"
	"pdfstore/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record with the
// DB-assigned id and timestamps.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (filename, filepath, filesize)
		VALUES ($1, $2, $3)
		RETURNING id, filename, filepath, filesize, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.Filename,
		doc.FilePath,
		doc.FileSize,
	)
	var out model.Document
	if err := row.Scan(
		&out.ID,
		&out.Filename,
		&out.FilePath,
		&out.FileSize,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `
		SELECT id, filename, filepath, filesize, created_at, updated_at
		FROM documents
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.Filename,
		&d.FilePath,
		&d.FileSize,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns all documents, newest first, ties broken by id descending.
func (r *DocumentPostgres) List(ctx context.Context) ([]model.Document, error) {
	const q = `
		SELECT id, filename, filepath, filesize, created_at, updated_at
		FROM documents
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.ID,
			&d.Filename,
			&d.FilePath,
			&d.FileSize,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Delete removes a document by ID. Returns sql.ErrNoRows when the row did not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
