// Package memory is an in-process store driver used by tests and the
// "memory" profile driver.
package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/hrygo/kinsync/store"
)

type DB struct {
	mu    sync.Mutex
	docs  map[string]store.Document
	blobs map[string]store.Blob
}

func NewDB() store.Driver {
	return &DB{
		docs:  map[string]store.Document{},
		blobs: map[string]store.Blob{},
	}
}

func (d *DB) Close() error {
	return nil
}

func (d *DB) Migrate(context.Context) error {
	return nil
}

func (d *DB) GetDocument(_ context.Context, id string) (*store.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, ok := d.docs[id]
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "document %s", id)
	}
	doc.State = bytes.Clone(doc.State)
	return &doc, nil
}

func (d *DB) SaveDocument(_ context.Context, save *store.SaveDocument) (*store.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.docs[save.ID]
	switch {
	case save.ExpectedETag == "" && ok:
		return nil, errors.Wrapf(store.ErrConflict, "document %s already exists", save.ID)
	case save.ExpectedETag != "" && (!ok || existing.ETag != save.ExpectedETag):
		return nil, errors.Wrapf(store.ErrConflict, "document %s", save.ID)
	}

	doc := store.Document{
		ID:        save.ID,
		State:     bytes.Clone(save.State),
		ETag:      save.NewETag,
		UpdatedTs: save.UpdatedTs,
	}
	d.docs[save.ID] = doc
	return &doc, nil
}

func (d *DB) PutBlob(_ context.Context, blob *store.Blob) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	b := *blob
	b.Data = bytes.Clone(blob.Data)
	d.blobs[blob.Key] = b
	return nil
}

func (d *DB) GetBlob(_ context.Context, key string) (*store.Blob, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.blobs[key]
	if !ok {
		return nil, errors.Wrapf(store.ErrNotFound, "blob %s", key)
	}
	b.Data = bytes.Clone(b.Data)
	return &b, nil
}
