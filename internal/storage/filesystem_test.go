package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfstore/internal/apperr"
)

func newTestFS(t *testing.T) (Storage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFilesystem(dir)
	require.NoError(t, err)
	return s, dir
}

func TestFilesystem_PutGetRoundTrip(t *testing.T) {
	s, dir := newTestFS(t)
	ctx := context.Background()

	content := []byte("%PDF-1.4 hello")
	res, err := s.Put(ctx, "report.pdf", bytes.NewReader(content))
	require.NoError(t, err)

	assert.NotEmpty(t, res.Key)
	assert.Equal(t, int64(len(content)), res.Size)
	assert.True(t, strings.HasSuffix(res.Key, ".pdf"))
	assert.Contains(t, res.Key, "report")

	rc, err := s.Get(ctx, res.Key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, content, got)

	// No leftover temp files after a successful put.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".upload-"), "stray temp file %s", e.Name())
	}
}

func TestFilesystem_PutEmptyContent(t *testing.T) {
	s, _ := newTestFS(t)
	ctx := context.Background()

	res, err := s.Put(ctx, "empty.pdf", bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Size)

	rc, err := s.Get(ctx, res.Key)
	require.NoError(t, err)
	got, _ := io.ReadAll(rc)
	rc.Close()
	assert.Empty(t, got)
}

func TestFilesystem_DistinctKeysForSameName(t *testing.T) {
	s, _ := newTestFS(t)
	ctx := context.Background()

	first, err := s.Put(ctx, "scan.pdf", strings.NewReader("first"))
	require.NoError(t, err)
	second, err := s.Put(ctx, "scan.pdf", strings.NewReader("second"))
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)

	rc1, err := s.Get(ctx, first.Key)
	require.NoError(t, err)
	b1, _ := io.ReadAll(rc1)
	rc1.Close()

	rc2, err := s.Get(ctx, second.Key)
	require.NoError(t, err)
	b2, _ := io.ReadAll(rc2)
	rc2.Close()

	assert.Equal(t, "first", string(b1))
	assert.Equal(t, "second", string(b2))
}

func TestFilesystem_GetMissing(t *testing.T) {
	s, _ := newTestFS(t)

	rc, err := s.Get(context.Background(), "no-such-key.pdf")
	assert.Nil(t, rc)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestFilesystem_Exists(t *testing.T) {
	s, _ := newTestFS(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "missing.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	res, err := s.Put(ctx, "present.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	ok, err = s.Exists(ctx, res.Key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFilesystem_Remove(t *testing.T) {
	s, _ := newTestFS(t)
	ctx := context.Background()

	res, err := s.Put(ctx, "gone.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, res.Key))

	ok, err := s.Exists(ctx, res.Key)
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an already absent blob reports not-found.
	err = s.Remove(ctx, res.Key)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestFilesystem_PutCancelledContext(t *testing.T) {
	s, dir := newTestFS(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Put(ctx, "aborted.pdf", strings.NewReader("never written"))
	assert.True(t, apperr.IsKind(err, apperr.KindIOFailure))

	// The aborted upload must not leave anything visible.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFilesystem_KeyStaysUnderRoot(t *testing.T) {
	s, dir := newTestFS(t)
	ctx := context.Background()

	res, err := s.Put(ctx, "../../etc/passwd.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	// Blob must live directly under the root.
	_, statErr := os.Stat(filepath.Join(dir, res.Key))
	assert.NoError(t, statErr)
	assert.NotContains(t, res.Key, "/")
}

func TestNewFilesystem_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewFilesystem(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewFilesystem_EmptyDir(t *testing.T) {
	_, err := NewFilesystem("")
	assert.Error(t, err)
}
