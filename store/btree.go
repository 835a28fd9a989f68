package store

import (
	"bytes"

	"github.com/google/btree"
)

// freeListSize is the number of btree nodes kept for reuse by nested cache
// wraps.
const freeListSize = btree.DefaultFreeListSize

// BTreeCacheable adds a btree cache wrap to a KVStore.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a savepoint over the store.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in memory store. Nothing is persisted.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap is a savepoint over a read only store. Reads see own
// writes first. Writes are recorded in the batch and reach the parent only
// on Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a savepoint over kv. All writes go through
// batch, which must write into the store kv reads from.
//
// free may be nil. Nested savepoints share the free list of their parent.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(freeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap returns a nested savepoint. Its Write applies the changes to
// this one only.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this savepoint.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write applies all changes to the parent store and empties the savepoint.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all changes.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

// lookup returns the change recorded for given key, if any.
func (b BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	item := b.bt.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.lookup(key); ok {
		return !e.deleted, nil
	}
	return b.back.Has(key)
}

// Iterator merges the changes of this savepoint with the content of the
// parent store.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parentIter, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ascendBtree(b.bt, start, end).wrap(parentIter), nil
}

// entry is a change recorded in the btree. A deleted entry hides the key
// of the parent store.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

// Less orders entries by key.
func (e entry) Less(item btree.Item) bool {
	return bytes.Compare(e.key, item.(entry).key) < 0
}
