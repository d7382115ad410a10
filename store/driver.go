package store

import (
	"context"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	Close() error

	// Migrate creates the schema if it does not exist yet.
	Migrate(ctx context.Context) error

	// Document model related methods.
	GetDocument(ctx context.Context, id string) (*Document, error)
	SaveDocument(ctx context.Context, save *SaveDocument) (*Document, error)

	// Blob model related methods.
	PutBlob(ctx context.Context, blob *Blob) error
	GetBlob(ctx context.Context, key string) (*Blob, error)
}
