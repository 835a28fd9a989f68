package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/fxamacker/cbor/v2"
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

	// encMode produces a canonical encoding so that the same model always
	// serializes to the same bytes.
	encMode = func() cbor.EncMode {
		em, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			panic(err)
		}
		return em
	}()
)

// Model is impelemented by any entity that can be stored using ModelBucket.
type Model interface {
	// Validate returns error if the model is not in a valid state to save
	// to the db (eg. field missing, out of range, ...)
	Validate() error
}

// ModelBucket is implemented by buckets that operates on Models.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db remit.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given key exists. ErrNotFound is
	// returned otherwise.
	Has(db remit.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Model is validated before
	// saving.
	Put(db remit.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db remit.KVStore, key []byte) error

	// Iterate returns an iterator over all entities stored in this bucket,
	// ordered by their keys.
	Iterate(db remit.ReadOnlyKVStore) (*ModelIterator, error)
}

// NewModelBucket returns a ModelBucket instance that stores entities of the
// same type as given model under a prefix derived from the name.
func NewModelBucket(name string, proto Model) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	tp := reflect.TypeOf(proto)
	if tp.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("model must be a pointer, got %T", proto))
	}
	return &modelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		model:  tp,
	}
}

type modelBucket struct {
	name   string
	prefix []byte
	model  reflect.Type
}

// dbKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (mb *modelBucket) dbKey(key []byte) []byte {
	l := len(mb.prefix)
	out := make([]byte, l+len(key))
	copy(out, mb.prefix)
	copy(out[l:], key)
	return out
}

func (mb *modelBucket) One(db remit.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.model)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "get")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return unmarshal(raw, dest)
}

func (mb *modelBucket) Has(db remit.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "has")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Put(db remit.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	}
	if reflect.TypeOf(m) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be stored as %s", m, mb.model)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := encMode.Marshal(m)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal: %s", err)
	}
	return db.Set(mb.dbKey(key), raw)
}

func (mb *modelBucket) Delete(db remit.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return db.Delete(mb.dbKey(key))
}

func (mb *modelBucket) Iterate(db remit.ReadOnlyKVStore) (*ModelIterator, error) {
	it, err := db.Iterator(mb.prefix, prefixEnd(mb.prefix))
	if err != nil {
		return nil, errors.Wrap(err, "iterator")
	}
	return &ModelIterator{
		it:     it,
		prefix: len(mb.prefix),
		model:  mb.model,
	}, nil
}

// ModelIterator reads entities of a single bucket one by one.
type ModelIterator struct {
	it     remit.Iterator
	prefix int
	model  reflect.Type
}

// Next loads the next entity into dest and returns its key. ErrIteratorDone
// is returned when all entities were read.
func (mi *ModelIterator) Next(dest Model) ([]byte, error) {
	if !mi.it.Valid() {
		return nil, ErrIteratorDone
	}
	if reflect.TypeOf(dest) != mi.model {
		return nil, errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mi.model)
	}
	// Reset the destination so that no state leaks from the previous
	// entity.
	v := reflect.ValueOf(dest).Elem()
	v.Set(reflect.Zero(v.Type()))

	key := mi.it.Key()[mi.prefix:]
	if err := unmarshal(mi.it.Value(), dest); err != nil {
		return nil, err
	}
	mi.it.Next()
	return key, nil
}

// Close releases the iterator.
func (mi *ModelIterator) Close() {
	mi.it.Close()
}

func unmarshal(raw []byte, dest Model) error {
	if err := cbor.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

// prefixEnd returns the first key that does not start with given prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
