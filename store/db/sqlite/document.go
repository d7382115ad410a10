package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/hrygo/kinsync/store"
)

func (d *DB) GetDocument(ctx context.Context, id string) (*store.Document, error) {
	doc := &store.Document{ID: id}
	err := d.db.QueryRowContext(ctx,
		"SELECT state, etag, updated_ts FROM document WHERE id = ?", id,
	).Scan(&doc.State, &doc.ETag, &doc.UpdatedTs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(store.ErrNotFound, "document %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get document")
	}
	return doc, nil
}

func (d *DB) SaveDocument(ctx context.Context, save *store.SaveDocument) (*store.Document, error) {
	var (
		result sql.Result
		err    error
	)
	if save.ExpectedETag == "" {
		result, err = d.db.ExecContext(ctx,
			"INSERT INTO document (id, state, etag, updated_ts) VALUES (?, ?, ?, ?) ON CONFLICT(id) DO NOTHING",
			save.ID, save.State, save.NewETag, save.UpdatedTs)
	} else {
		result, err = d.db.ExecContext(ctx,
			"UPDATE document SET state = ?, etag = ?, updated_ts = ? WHERE id = ? AND etag = ?",
			save.State, save.NewETag, save.UpdatedTs, save.ID, save.ExpectedETag)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to save document")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return nil, errors.Wrapf(store.ErrConflict, "document %s", save.ID)
	}

	return &store.Document{
		ID:        save.ID,
		State:     save.State,
		ETag:      save.NewETag,
		UpdatedTs: save.UpdatedTs,
	}, nil
}

func (d *DB) PutBlob(ctx context.Context, blob *store.Blob) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO blob (key, content_type, data, created_ts) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET content_type = excluded.content_type, data = excluded.data, created_ts = excluded.created_ts`,
		blob.Key, blob.ContentType, blob.Data, blob.CreatedTs)
	if err != nil {
		return errors.Wrap(err, "failed to put blob")
	}
	return nil
}

func (d *DB) GetBlob(ctx context.Context, key string) (*store.Blob, error) {
	blob := &store.Blob{Key: key}
	err := d.db.QueryRowContext(ctx,
		"SELECT content_type, data, created_ts FROM blob WHERE key = ?", key,
	).Scan(&blob.ContentType, &blob.Data, &blob.CreatedTs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(store.ErrNotFound, "blob %s", key)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get blob")
	}
	return blob, nil
}
