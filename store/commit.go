package store

// MemCommitStore is an in-memory CommitKVStore. Writes done through cache
// wraps are kept until the process exits.
type MemCommitStore struct {
	base BTreeCacheWrap
}

var _ CommitKVStore = (*MemCommitStore)(nil)

// NewMemCommitStore returns an empty in-memory CommitKVStore.
func NewMemCommitStore() *MemCommitStore {
	e := EmptyKVStore{}
	return &MemCommitStore{
		base: NewBTreeCacheWrap(e, e.NewBatch(), nil),
	}
}

// Get returns the committed value.
func (m *MemCommitStore) Get(key []byte) ([]byte, error) {
	return m.base.Get(key)
}

// Has returns true if the key is committed.
func (m *MemCommitStore) Has(key []byte) (bool, error) {
	return m.base.Has(key)
}

// Iterator iterates over committed data.
func (m *MemCommitStore) Iterator(start, end []byte) (Iterator, error) {
	return m.base.Iterator(start, end)
}

// CacheWrap returns a scratch-pad that is written into this store.
func (m *MemCommitStore) CacheWrap() KVCacheWrap {
	return m.base.CacheWrap()
}

// Close is a noop.
func (m *MemCommitStore) Close() error {
	return nil
}
