package migration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()

	t.Run("schema already exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		assert.NoError(t, EnsureMigrated(ctx, db, time.UTC, "localhost"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("runs all steps when table missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_documents_created_at").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, EnsureMigrated(ctx, db, time.UTC, "localhost"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("step failure propagates", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").
			WillReturnError(errors.New("permission denied"))

		err = EnsureMigrated(ctx, db, time.UTC, "localhost")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "create_table_documents")
	})
}
