package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"pdfstore/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		Filename: "report.pdf",
		FilePath: "report-1700000000000000000-a1b2c3d4.pdf",
		FileSize: 123,
	}

	rows := sqlmock.NewRows([]string{"id", "filename", "filepath", "filesize", "created_at", "updated_at"}).
		AddRow(int64(1), doc.Filename, doc.FilePath, doc.FileSize, now, now)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.Filename, doc.FilePath, doc.FileSize).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int64(1), result.ID)
	assert.Equal(t, doc.FilePath, result.FilePath)
	assert.Equal(t, now, result.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "filename", "filepath", "filesize", "created_at", "updated_at"}).
			AddRow(int64(7), "file.pdf", "file-123.pdf", int64(100), now, now)

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs(int64(7)).
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, 7)

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, int64(7), doc.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, 99)

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "filename", "filepath", "filesize", "created_at", "updated_at"}).
			AddRow(int64(2), "newer.pdf", "newer-2.pdf", int64(200), now, now).
			AddRow(int64(1), "older.pdf", "older-1.pdf", int64(100), now.Add(-time.Hour), now.Add(-time.Hour))

		mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY").
			WillReturnRows(rows)

		res, err := repo.List(ctx)

		assert.NoError(t, err)
		assert.Len(t, res, 2)
		assert.Equal(t, int64(2), res[0].ID)
	})

	t.Run("empty table yields empty slice", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "filename", "filepath", "filesize", "created_at", "updated_at"})

		mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY").
			WillReturnRows(rows)

		res, err := repo.List(ctx)

		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents WHERE id = ?").
			WithArgs(int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 5))
	})

	t.Run("missing row reports sql.ErrNoRows", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM documents WHERE id = ?").
			WithArgs(int64(6)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(ctx, 6)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
