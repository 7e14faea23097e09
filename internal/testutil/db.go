package testutil

import (
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/frontdesk-hq/frontdesk/internal/db"
	"github.com/frontdesk-hq/frontdesk/internal/devapi"
)

// NewTestDB creates a temporary SQLite database with migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}

// NewTestStore returns a stand-in API store on a fresh database.
func NewTestStore(t *testing.T) *devapi.Store {
	t.Helper()
	return devapi.NewStore(NewTestDB(t))
}

// NewBackendServer starts the stand-in API on an httptest server. The
// returned store can be used to seed or inspect data directly.
func NewBackendServer(t *testing.T) (*httptest.Server, *devapi.Store) {
	t.Helper()

	store := NewTestStore(t)
	server := httptest.NewServer(devapi.NewServer(store).Routes())
	t.Cleanup(server.Close)
	return server, store
}
