// Package apperr defines the closed set of error kinds the document core can
// fail with, so callers branch on kind instead of matching message strings.
package apperr

import (
	"errors"
	"fmt"
)

// Kind tags an Error with one of the failure categories of the document core.
type Kind int

const (
	// KindUnknown is the zero value; KindOf returns it for errors that did not
	// originate in this package.
	KindUnknown Kind = iota
	// KindInvalidType rejects an upload whose MIME type is not accepted.
	KindInvalidType
	// KindTooLarge rejects an upload exceeding the configured size ceiling.
	KindTooLarge
	// KindNotFound reports a missing document record or a missing blob.
	KindNotFound
	// KindIOFailure reports a blob read/write/delete failure.
	KindIOFailure
	// KindPersistence reports a metadata create/delete failure.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindInvalidType:
		return "invalid_type"
	case KindTooLarge:
		return "too_large"
	case KindNotFound:
		return "not_found"
	case KindIOFailure:
		return "io_failure"
	case KindPersistence:
		return "persistence_failure"
	default:
		return "unknown"
	}
}

// Error carries a kind plus structured context about which document or blob
// the failure concerns. ID and Key are optional; zero values mean "not applicable".
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "service.Upload"
	ID   int64  // document id, if known
	Key  string // blob storage key, if known
	Err  error  // underlying cause, may be nil for pure validation failures
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.ID != 0 {
		msg += fmt.Sprintf(" id=%d", e.ID)
	}
	if e.Key != "" {
		msg += fmt.Sprintf(" key=%s", e.Key)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two apperr errors by kind, so errors.Is(err, &Error{Kind: KindNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an Error with the given kind, operation and cause.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the kind from err, unwrapping as needed.
// It returns KindUnknown for nil or foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
