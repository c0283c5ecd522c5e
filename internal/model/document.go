package model

import "time"

// Document represents a stored PDF file in the system.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	FilePath  string    `json:"-"` // storage key; opaque outside the core, never exposed over HTTP
	FileSize  int64     `json:"filesize"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
