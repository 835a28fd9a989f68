// Package bolt implements a persistent CommitKVStore backed by a single
// bbolt bucket.
package bolt

import (
	"bytes"
	"os"
	"time"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/store"
	bbolt "go.etcd.io/bbolt"
)

var dataBucket = []byte("state")

// Option configures how the database file is opened.
type Option func(*bbolt.Options)

// WithReadOnly opens the database in read only mode. Multiple read only
// handles may be held at the same time.
func WithReadOnly() Option {
	return func(o *bbolt.Options) {
		o.ReadOnly = true
	}
}

// WithTimeout sets how long opening waits for the file lock.
func WithTimeout(d time.Duration) Option {
	return func(o *bbolt.Options) {
		o.Timeout = d
	}
}

// Store is a CommitKVStore that keeps all data in a bbolt file. All writes
// are done through a cache wrap, which is flushed in a single bolt
// transaction, so a write either fully succeeds or has no effect.
type Store struct {
	db *bbolt.DB
}

var _ remit.CommitKVStore = (*Store)(nil)

// Open opens or creates the database file at given path.
func Open(path string, opts ...Option) (*Store, error) {
	o := &bbolt.Options{Timeout: 5 * time.Second}
	for _, fn := range opts {
		fn(o)
	}
	db, err := bbolt.Open(path, 0600, o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", path, err)
	}
	if !o.ReadOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(dataBucket)
			return err
		})
		if err != nil {
			db.Close()
			return nil, errors.Wrapf(errors.ErrDatabase, "create bucket: %s", err)
		}
	}
	return &Store{db: db}, nil
}

// Exists returns true if a database file is present at given path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Get returns the committed value or nil.
func (s *Store) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(dataBucket)
		if b == nil {
			return nil
		}
		// Returned slice is valid only during the transaction.
		if v := b.Get(key); v != nil {
			value = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return value, nil
}

// Has returns true if the key is committed.
func (s *Store) Has(key []byte) (bool, error) {
	v, err := s.Get(key)
	return v != nil, err
}

// Iterator loads all models within given range. The result is a snapshot
// and is not affected by later writes.
func (s *Store) Iterator(start, end []byte) (remit.Iterator, error) {
	var models []remit.Model
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(dataBucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		var k, v []byte
		if start == nil {
			k, v = c.First()
		} else {
			k, v = c.Seek(start)
		}
		for ; k != nil; k, v = c.Next() {
			if end != nil && bytes.Compare(k, end) >= 0 {
				break
			}
			models = append(models, remit.Pair(
				append([]byte{}, k...),
				append([]byte{}, v...),
			))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.NewSliceIterator(models), nil
}

// CacheWrap returns a scratch-pad. Calling Write on it flushes all
// operations in one bolt transaction.
func (s *Store) CacheWrap() remit.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, &batch{db: s.db}, nil)
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// batch collects operations and applies them atomically.
type batch struct {
	db  *bbolt.DB
	ops []store.Op
}

var _ remit.Batch = (*batch)(nil)

func (b *batch) Set(key, value []byte) error {
	b.ops = append(b.ops, store.SetOp(key, value))
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, store.DelOp(key))
	return nil
}

func (b *batch) Write() error {
	if len(b.ops) == 0 {
		return nil
	}
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(dataBucket)
		if bkt == nil {
			return errors.Wrap(errors.ErrDatabase, "missing state bucket")
		}
		for _, op := range b.ops {
			var err error
			if op.IsSet() {
				err = bkt.Put(op.Key(), op.Value())
			} else {
				err = bkt.Delete(op.Key())
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	b.ops = nil
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
