// Package test holds driver conformance checks shared by every store driver.
package test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/kinsync/internal/profile"
	"github.com/hrygo/kinsync/store"
	"github.com/hrygo/kinsync/store/db"
)

// NewTestingStore opens a migrated store for the given driver.
func NewTestingStore(ctx context.Context, t *testing.T, driverName string) *store.Store {
	t.Helper()
	p := getTestingProfile(t, driverName)
	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)
	require.NoError(t, driver.Migrate(ctx))

	s := store.New(driver, p)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func getTestingProfile(t *testing.T, driverName string) *profile.Profile {
	p := &profile.Profile{Mode: "dev", Driver: driverName}
	switch driverName {
	case "sqlite":
		p.DSN = filepath.Join(t.TempDir(), "kinsync_test.db")
	case "postgres":
		p.DSN = GetPostgresDSN(t)
	}
	return p
}

// uniqueID keeps postgres runs against a shared database independent.
func uniqueID(t *testing.T, name string) string {
	return fmt.Sprintf("%s-%s", t.Name(), name)
}
