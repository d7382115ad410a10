package test

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/kinsync/store"
)

var drivers = []string{"memory", "sqlite", "postgres"}

func TestDocumentStore(t *testing.T) {
	for _, name := range drivers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ts := NewTestingStore(ctx, t, name)
			id := uniqueID(t, "group")

			_, _, err := ts.Load(ctx, id)
			require.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)

			etag, err := ts.Save(ctx, id, []byte(`{"v":1}`), "")
			require.NoError(t, err)
			require.NotEmpty(t, etag)

			state, loadedTag, err := ts.Load(ctx, id)
			require.NoError(t, err)
			assert.JSONEq(t, `{"v":1}`, string(state))
			assert.Equal(t, etag, loadedTag)

			next, err := ts.Save(ctx, id, []byte(`{"v":2}`), etag)
			require.NoError(t, err)
			assert.NotEqual(t, etag, next)

			// Stale etag.
			_, err = ts.Save(ctx, id, []byte(`{"v":3}`), etag)
			assert.True(t, errors.Is(err, store.ErrConflict), "got %v", err)

			// Create over an existing document.
			_, err = ts.Save(ctx, id, []byte(`{"v":4}`), "")
			assert.True(t, errors.Is(err, store.ErrConflict), "got %v", err)

			// Update of a missing document.
			_, err = ts.Save(ctx, uniqueID(t, "missing"), []byte(`{}`), "bogus")
			assert.True(t, errors.Is(err, store.ErrConflict), "got %v", err)

			state, _, err = ts.Load(ctx, id)
			require.NoError(t, err)
			assert.JSONEq(t, `{"v":2}`, string(state))
		})
	}
}

func TestDocumentStore_ConcurrentWriters(t *testing.T) {
	for _, name := range drivers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ts := NewTestingStore(ctx, t, name)
			id := uniqueID(t, "group")

			etag, err := ts.Save(ctx, id, []byte(`{"v":0}`), "")
			require.NoError(t, err)

			const writers = 5
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				succeeded int
			)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := ts.Save(ctx, id, []byte(`{"v":1}`), etag); err == nil {
						mu.Lock()
						succeeded++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			assert.Equal(t, 1, succeeded)
		})
	}
}

func TestBlobStore(t *testing.T) {
	for _, name := range drivers {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ts := NewTestingStore(ctx, t, name)
			key := uniqueID(t, "invite.ics")

			_, err := ts.GetBinary(ctx, key)
			require.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)

			require.NoError(t, ts.PutBinary(ctx, key, "text/calendar", []byte("BEGIN:VCALENDAR")))
			require.NoError(t, ts.PutBinary(ctx, key, "text/calendar", []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR")))

			blob, err := ts.GetBinary(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, "text/calendar", blob.ContentType)
			assert.Equal(t, "BEGIN:VCALENDAR\r\nEND:VCALENDAR", string(blob.Data))
			assert.NotZero(t, blob.CreatedTs)
		})
	}
}
