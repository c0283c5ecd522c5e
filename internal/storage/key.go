package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newStorageKey derives a collision-free key from the uploader's display name.
// Construction: sanitized base name + nanosecond timestamp + random suffix +
// original extension. Keys stay human-traceable while two concurrent uploads
// of the same name collide with negligible probability; uniqueness is a
// property of the key itself, not of the backend.
func newStorageKey(displayName string) string {
	ext := filepath.Ext(displayName)
	base := sanitizeBaseName(strings.TrimSuffix(filepath.Base(displayName), ext))
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixNano(), suffix, ext)
}

// sanitizeBaseName strips path separators and control characters so the key is
// safe to use as a single path element under the storage root.
func sanitizeBaseName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == 0:
			b.WriteByte('_')
		case r < 0x20:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	s := strings.Trim(b.String(), ". ")
	if s == "" {
		s = "file"
	}
	return s
}
