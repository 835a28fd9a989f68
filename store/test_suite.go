package store

import (
	"bytes"
	"testing"
)

// CommitStoreSuite runs a set of sanity checks against a CommitKVStore
// implementation. Each call to open must return a new, empty store.
//
// It is exported so that every backend is tested against the same
// expectations.
func CommitStoreSuite(t *testing.T, open func(t *testing.T) CommitKVStore) {
	t.Run("write is visible after commit", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		cache := db.CacheWrap()
		mustSet(t, cache, []byte("alice"), []byte("1"))
		if v := mustGet(t, db, []byte("alice")); v != nil {
			t.Fatalf("uncommitted data visible: %q", v)
		}
		if err := cache.Write(); err != nil {
			t.Fatalf("cannot write: %s", err)
		}
		if v := mustGet(t, db, []byte("alice")); !bytes.Equal(v, []byte("1")) {
			t.Fatalf("unexpected value: %q", v)
		}
	})

	t.Run("discard drops all changes", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		cache := db.CacheWrap()
		mustSet(t, cache, []byte("bob"), []byte("2"))
		cache.Discard()

		if ok, err := db.Has([]byte("bob")); err != nil || ok {
			t.Fatalf("discarded value found: %v, %v", ok, err)
		}
	})

	t.Run("delete removes committed value", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		cache := db.CacheWrap()
		mustSet(t, cache, []byte("carol"), []byte("3"))
		if err := cache.Write(); err != nil {
			t.Fatalf("cannot write: %s", err)
		}

		cache = db.CacheWrap()
		if err := cache.Delete([]byte("carol")); err != nil {
			t.Fatalf("cannot delete: %s", err)
		}
		if err := cache.Write(); err != nil {
			t.Fatalf("cannot write: %s", err)
		}
		if v := mustGet(t, db, []byte("carol")); v != nil {
			t.Fatalf("deleted value found: %q", v)
		}
	})

	t.Run("iterator is ordered and bounded", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		cache := db.CacheWrap()
		for _, k := range []string{"b:2", "a:1", "b:1", "c:1"} {
			mustSet(t, cache, []byte(k), []byte(k))
		}
		if err := cache.Write(); err != nil {
			t.Fatalf("cannot write: %s", err)
		}

		// Uncommitted changes must be merged with the committed data.
		cache = db.CacheWrap()
		mustSet(t, cache, []byte("b:3"), []byte("b:3"))
		if err := cache.Delete([]byte("b:1")); err != nil {
			t.Fatalf("cannot delete: %s", err)
		}

		it, err := cache.Iterator([]byte("b:"), []byte("c:"))
		if err != nil {
			t.Fatalf("cannot create iterator: %s", err)
		}
		defer it.Close()

		var got []string
		for ; it.Valid(); it.Next() {
			got = append(got, string(it.Key()))
		}
		want := []string{"b:2", "b:3"}
		if len(got) != len(want) {
			t.Fatalf("want %v, got %v", want, got)
		}
		for i := range want {
			if want[i] != got[i] {
				t.Fatalf("want %v, got %v", want, got)
			}
		}
	})
}

func mustSet(t *testing.T, db SetDeleter, key, value []byte) {
	t.Helper()
	if err := db.Set(key, value); err != nil {
		t.Fatalf("cannot set %q: %s", key, err)
	}
}

func mustGet(t *testing.T, db ReadOnlyKVStore, key []byte) []byte {
	t.Helper()
	v, err := db.Get(key)
	if err != nil {
		t.Fatalf("cannot get %q: %s", key, err)
	}
	return v
}
