package remittest

import (
	"path/filepath"
	"testing"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/store/bolt"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data. The database is closed and removed when the test
// finishes.
// This implementation should be used instead of store.MemStore when you want
// the exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) remit.CommitKVStore {
	t.Helper()

	db, err := bolt.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("cannot open bolt database: %s", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
