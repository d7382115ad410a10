package store

import (
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a document or blob does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a save carries a stale etag.
	ErrConflict = errors.New("etag mismatch")
)

// Document is an opaque, etag-versioned state blob keyed by id.
type Document struct {
	ID        string
	State     []byte
	ETag      string
	UpdatedTs int64
}

// SaveDocument is a compare-and-swap write. An empty ExpectedETag creates
// the document and fails with ErrConflict if it already exists.
type SaveDocument struct {
	ID           string
	State        []byte
	ExpectedETag string
	NewETag      string
	UpdatedTs    int64
}

// Blob is a binary attachment such as a rendered calendar file.
type Blob struct {
	Key         string
	ContentType string
	Data        []byte
	CreatedTs   int64
}
