package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := &Error{Kind: KindNotFound, Op: "service.Download", ID: 7}

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindIOFailure))

	// Wrapped errors still expose their kind.
	wrapped := fmt.Errorf("handler: %w", err)
	assert.Equal(t, KindNotFound, KindOf(wrapped))

	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestErrorIs(t *testing.T) {
	err := &Error{Kind: KindTooLarge, Op: "service.Upload"}

	assert.True(t, errors.Is(err, &Error{Kind: KindTooLarge}))
	assert.False(t, errors.Is(err, &Error{Kind: KindInvalidType}))
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("disk full")
	err := &Error{Kind: KindIOFailure, Op: "storage.Put", Key: "report-1.pdf", Err: cause}

	msg := err.Error()
	assert.Contains(t, msg, "storage.Put")
	assert.Contains(t, msg, "io_failure")
	assert.Contains(t, msg, "key=report-1.pdf")
	assert.Contains(t, msg, "disk full")
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInvalidType, "invalid_type"},
		{KindTooLarge, "too_large"},
		{KindNotFound, "not_found"},
		{KindIOFailure, "io_failure"},
		{KindPersistence, "persistence_failure"},
		{KindUnknown, "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}
