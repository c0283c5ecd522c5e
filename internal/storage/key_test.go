package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStorageKey(t *testing.T) {
	key := newStorageKey("quarterly report.pdf")

	assert.True(t, strings.HasPrefix(key, "quarterly report-"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	// Same name, different keys.
	other := newStorageKey("quarterly report.pdf")
	assert.NotEqual(t, key, other)
}

func TestNewStorageKey_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key := newStorageKey("scan.pdf")
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestSanitizeBaseName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "report", "report"},
		{"path separators replaced", "a/b\\c", "a_b_c"},
		{"control characters replaced", "a\x01b", "a_b"},
		{"leading dots trimmed", "..hidden", "hidden"},
		{"empty falls back", "", "file"},
		{"dots only falls back", "...", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeBaseName(tt.in))
		})
	}
}
