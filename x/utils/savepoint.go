package utils

import (
	"context"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error
type Savepoint struct {
	discard bool
}

var _ remit.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator that writes all changes on
// success and drops them on failure.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// Discarding returns a savepoint that drops all changes even if the call
// succeeds. Use it to compute the result of an operation without applying
// it.
func (s Savepoint) Discarding() Savepoint {
	return Savepoint{discard: true}
}

// Deliver will set a checkpoint
func (s Savepoint) Deliver(ctx context.Context, store remit.KVStore, next remit.Handler) (*remit.DeliverResult, error) {
	cstore, ok := store.(remit.CacheableKVStore)
	if !ok {
		if s.discard {
			return nil, errors.Wrap(errors.ErrHuman, "store cannot be discarded")
		}
		return next.Deliver(ctx, store)
	}

	cache := cstore.CacheWrap()
	if res, err := next.Deliver(ctx, cache); err != nil {
		cache.Discard()
		return nil, err
	} else if s.discard {
		cache.Discard()
		return res, nil
	} else if werr := cache.Write(); werr != nil {
		return nil, errors.Wrap(werr, "writing savepoint")
	} else {
		return res, nil
	}
}
