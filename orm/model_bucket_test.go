package orm

import (
	"testing"

	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/remittest/assert"
	"github.com/iov-one/remit/store"
)

type counter struct {
	Name  string
	Count int64
}

func (c *counter) Validate() error {
	if c.Name == "" {
		return errors.Field("Name", errors.ErrEmpty, "required")
	}
	if c.Count < 0 {
		return errors.Field("Count", errors.ErrAmount, "must not be negative")
	}
	return nil
}

type other struct{}

func (other) Validate() error { return nil }

func TestModelBucketPutOneDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})

	assert.Nil(t, b.Put(db, []byte("a"), &counter{Name: "first", Count: 4}))

	var got counter
	assert.Nil(t, b.One(db, []byte("a"), &got))
	assert.Equal(t, counter{Name: "first", Count: 4}, got)
	assert.Nil(t, b.Has(db, []byte("a")))

	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("b"), &got))
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("b")))

	assert.Nil(t, b.Delete(db, []byte("a")))
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("a"), &got))
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("a")))
}

func TestModelBucketPutValidation(t *testing.T) {
	cases := map[string]struct {
		Key       []byte
		Model     Model
		WantErr   *errors.Error
		WantField string
	}{
		"valid": {
			Key:   []byte("x"),
			Model: &counter{Name: "x"},
		},
		"missing key": {
			Key:       nil,
			Model:     &counter{Name: "x"},
			WantErr:   errors.ErrEmpty,
			WantField: "Key",
		},
		"invalid model": {
			Key:       []byte("x"),
			Model:     &counter{Name: "x", Count: -1},
			WantErr:   errors.ErrAmount,
			WantField: "Count",
		},
		"wrong model type": {
			Key:     []byte("x"),
			Model:   &other{},
			WantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			b := NewModelBucket("cnts", &counter{})
			err := b.Put(db, tc.Key, tc.Model)
			if tc.WantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.IsErr(t, tc.WantErr, err)
			if tc.WantField != "" {
				assert.FieldError(t, err, tc.WantField, tc.WantErr)
			}
		})
	}
}

func TestModelBucketOneWrongType(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})
	assert.Nil(t, b.Put(db, []byte("a"), &counter{Name: "a"}))
	assert.IsErr(t, errors.ErrType, b.One(db, []byte("a"), &other{}))
}

func TestModelBucketIterate(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &counter{})
	// Another bucket sharing the store must not leak into iteration.
	o := NewModelBucket("cntsx", &counter{})

	assert.Nil(t, b.Put(db, []byte("b"), &counter{Name: "b", Count: 2}))
	assert.Nil(t, b.Put(db, []byte("a"), &counter{Name: "a", Count: 1}))
	assert.Nil(t, o.Put(db, []byte("c"), &counter{Name: "c", Count: 3}))

	it, err := b.Iterate(db)
	assert.Nil(t, err)
	defer it.Close()

	var (
		keys  []string
		total int64
	)
	for {
		var c counter
		key, err := it.Next(&c)
		if ErrIteratorDone.Is(err) {
			break
		}
		assert.Nil(t, err)
		keys = append(keys, string(key))
		total += c.Count
	}
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, int64(3), total)
}

func TestNewModelBucketPanics(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("X", &counter{}) })
	assert.Panics(t, func() { NewModelBucket("others", other{}) })
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("cntt"), prefixEnd([]byte("cnts")))
	assert.Equal(t, []byte{0x02}, prefixEnd([]byte{0x01, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff, 0xff}))
}
