package test

import (
	"os"
	"testing"
)

// GetPostgresDSN returns the DSN for PostgreSQL driver tests. Tests are
// skipped unless POSTGRES_TEST_DSN is set.
func GetPostgresDSN(t *testing.T) string {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	return dsn
}
