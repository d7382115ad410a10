package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	// Import the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/kinsync/internal/profile"
	"github.com/hrygo/kinsync/store"
)

// ============================================================================
// SQLITE SUPPORT (Development / single household)
// ============================================================================
// SQLite keeps the whole group state in a local file. Writes are serialized
// through a single connection, which also makes in-memory databases usable
// in tests.
// ============================================================================

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	db, err := sql.Open("sqlite", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}
	db.SetMaxOpenConns(1)

	if !strings.Contains(profile.DSN, ":memory:") {
		if _, err := db.Exec("PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 10000;"); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "failed to configure sqlite")
		}
	}

	var driver store.Driver = &DB{
		db:      db,
		profile: profile,
	}
	return driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS document (
  id TEXT NOT NULL PRIMARY KEY,
  state BLOB NOT NULL,
  etag TEXT NOT NULL,
  updated_ts BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS blob (
  key TEXT NOT NULL PRIMARY KEY,
  content_type TEXT NOT NULL DEFAULT '',
  data BLOB NOT NULL,
  created_ts BIGINT NOT NULL
);`

func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}
