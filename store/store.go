package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hrygo/kinsync/internal/profile"
)

// Store provides etag-guarded access to group state documents and blobs.
type Store struct {
	profile *profile.Profile
	driver  Driver

	now func() time.Time
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
		now:     time.Now,
	}
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Load returns the state and etag of a document. A missing document yields
// ErrNotFound.
func (s *Store) Load(ctx context.Context, id string) ([]byte, string, error) {
	doc, err := s.driver.GetDocument(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return doc.State, doc.ETag, nil
}

// Save writes state if etag still matches the stored one and returns the
// new etag. Pass an empty etag to create a document.
func (s *Store) Save(ctx context.Context, id string, state []byte, etag string) (string, error) {
	if id == "" {
		return "", errors.New("document id is required")
	}
	doc, err := s.driver.SaveDocument(ctx, &SaveDocument{
		ID:           id,
		State:        state,
		ExpectedETag: etag,
		NewETag:      uuid.NewString(),
		UpdatedTs:    s.now().Unix(),
	})
	if err != nil {
		return "", err
	}
	return doc.ETag, nil
}

// PutBinary stores a blob under key, replacing any previous content.
func (s *Store) PutBinary(ctx context.Context, key, contentType string, data []byte) error {
	if key == "" {
		return errors.New("blob key is required")
	}
	return s.driver.PutBlob(ctx, &Blob{
		Key:         key,
		ContentType: contentType,
		Data:        data,
		CreatedTs:   s.now().Unix(),
	})
}

// GetBinary returns the blob stored under key.
func (s *Store) GetBinary(ctx context.Context, key string) (*Blob, error) {
	return s.driver.GetBlob(ctx, key)
}
