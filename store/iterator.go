package store

import (
	"bytes"

	"github.com/google/btree"
)

///////////////////////////////////////////////////////
// From Items to Iterator

// itemList is a snapshot of btree items within a range. The snapshot is
// taken when the iterator is created, so later writes to the cache wrap are
// not visible through it.
type itemList struct {
	items []btree.Item
	idx   int
}

func ascendBtree(bt *btree.BTree, start, end []byte) *itemList {
	var list itemList
	insert := func(item btree.Item) bool {
		list.items = append(list.items, item)
		return true
	}

	if start == nil && end == nil {
		bt.Ascend(insert)
	} else if start == nil { // end != nil
		bt.AscendLessThan(entry{key: end}, insert)
	} else if end == nil { // start != nil
		bt.AscendGreaterOrEqual(entry{key: start}, insert)
	} else { // both != nil
		bt.AscendRange(entry{key: start}, entry{key: end}, insert)
	}
	return &list
}

func (l *itemList) wrap(parent Iterator) *itemIter {
	iter := &itemIter{
		wrap:   l,
		parent: parent,
	}
	iter.skipAllDeleted()
	return iter
}

func (l *itemList) next() {
	l.idx++
}

// get requires this is valid, gets what we are pointing at
func (l *itemList) get() entry {
	return l.items[l.idx].(entry)
}

func (l *itemList) valid() bool {
	return l.idx < len(l.items)
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter combines our results with those of the parent,
// taking into consideration overwrites and deletes.
type itemIter struct {
	wrap *itemList
	// if we are iterating in a cache-wrap (and who isn't),
	// we need to combine this iterator with the parent
	parent Iterator
}

//------- public facing interface ------
var _ Iterator = (*itemIter)(nil)

// Valid implements Iterator and returns true iff it can be read
func (i *itemIter) Valid() bool {
	return i.wrap.valid() || i.parentValid()
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *itemIter) Next() {
	// advance either us, parent, or both
	switch i.firstKey() {
	case us:
		i.wrap.next()
	case both:
		i.wrap.next()
		i.parent.Next()
	case parent:
		i.parent.Next()
	default:
		panic("Advanced past the end!")
	}

	// keep advancing over all deleted entries
	i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *itemIter) Key() (key []byte) {
	switch i.firstKey() {
	case us, both:
		return i.wrap.get().key
	case parent:
		return i.parent.Key()
	default: //none
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *itemIter) Value() (value []byte) {
	switch i.firstKey() {
	case us, both:
		return i.wrap.get().value
	case parent:
		return i.parent.Value()
	default: // none
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *itemIter) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.wrap.items = nil
}

// skipAllDeleted loops and skips any number of deleted items
func (i *itemIter) skipAllDeleted() {
	for i.skipDeleted() {
	}
}

// skipDeleted jumps over all elements we can safely fast forward
// return true if skipped, so we can skip again
func (i *itemIter) skipDeleted() bool {
	src := i.firstKey()
	if src != us && src != both {
		return false
	}
	// if our next is deleted, advance...
	if !i.wrap.get().deleted {
		return false
	}
	i.wrap.next()
	// if parent had the same key, advance parent as well
	if src == both {
		i.parent.Next()
	}
	return true
}

// firstKey selects the iterator with the lowest key is any
func (i *itemIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !i.parentValid() {
		if !i.wrap.valid() {
			return none
		}
		return us
	} else if !i.wrap.valid() {
		return parent
	}

	// both are valid... compare keys....
	cmp := bytes.Compare(i.parent.Key(), i.wrap.get().key)
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

// makes sure the parent is non-nil before checking if it is valid
func (i *itemIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
