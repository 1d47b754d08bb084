package repositories_test

import (
	"context"
	_ "embed"
	"io"
	"testing"

	"github.com/myrjola/hotseat/internal/sqlite"
	"github.com/myrjola/hotseat/internal/testhelpers"
)

//go:embed testdata/fixtures.sql
var testFixtures string

// newTestDB creates a new in-memory database seeded with the test fixtures.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()

	dbs, err := sqlite.NewDatabase(context.Background(), ":memory:", testhelpers.NewLogger(io.Discard))
	if err != nil {
		t.Fatal(err)
	}

	if _, err = dbs.ReadWrite.Exec(testFixtures); err != nil {
		t.Fatal(err)
	}

	return dbs
}
