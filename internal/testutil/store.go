// Package testutil provides shared helpers for package tests: an isolated
// document store per test and a bounded context.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/rollcall/internal/app/store/docstore"
)

// SetupTestStore returns a document store rooted in a per-test temp
// directory. The jsonfile backend implements the same query semantics as
// mongo, so store-dependent logic tests without a database server.
func SetupTestStore(t *testing.T) docstore.DB {
	t.Helper()
	db, err := docstore.OpenJSONFile(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	return db
}

// TestContext returns a context with a generous deadline so a hung store
// call fails the test instead of wedging the run.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
