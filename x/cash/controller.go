package cash

import (
	"context"
	"math"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

// Receiver is notified after value was moved to the address it was
// registered for. The store is the one the transfer was written to, so any
// change done by the receiver is committed or discarded together with the
// transfer. Returning an error fails the transfer.
type Receiver func(ctx context.Context, db remit.KVStore, from remit.Address, amount int64) error

// Controller is the functionality needed by other extensions to move value.
type Controller interface {
	Balance(db remit.ReadOnlyKVStore, addr remit.Address) (int64, error)
	MoveCoins(ctx context.Context, db remit.KVStore, src, dest remit.Address, amount int64) error
	IssueCoins(db remit.KVStore, dest remit.Address, amount int64) error
}

// BaseController is a simple implementation of controller that keeps
// balances in a cash bucket.
type BaseController struct {
	bucket    Bucket
	receivers map[string]Receiver
}

var _ Controller = (*BaseController)(nil)

// NewController returns a controller using the given bucket.
func NewController(bucket Bucket) *BaseController {
	return &BaseController{
		bucket:    bucket,
		receivers: make(map[string]Receiver),
	}
}

// RegisterReceiver installs a receiver for given address. Only one receiver
// per address can be registered and registering again replaces it.
func (c *BaseController) RegisterReceiver(addr remit.Address, r Receiver) {
	c.receivers[string(addr)] = r
}

// Balance returns the current balance of given address.
func (c *BaseController) Balance(db remit.ReadOnlyKVStore, addr remit.Address) (int64, error) {
	return c.bucket.Balance(db, addr)
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c *BaseController) MoveCoins(ctx context.Context, db remit.KVStore, src, dest remit.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer %d", amount)
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	have, err := c.bucket.Balance(db, src)
	if err != nil {
		return errors.Wrap(err, "sender")
	}
	if have < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "have %d, need %d", have, amount)
	}

	if !src.Equals(dest) {
		got, err := c.bucket.Balance(db, dest)
		if err != nil {
			return errors.Wrap(err, "recipient")
		}
		if got > math.MaxInt64-amount {
			return errors.Wrap(errors.ErrOverflow, "recipient balance")
		}
		if err := c.bucket.Save(db, src, have-amount); err != nil {
			return errors.Wrap(err, "save sender")
		}
		if err := c.bucket.Save(db, dest, got+amount); err != nil {
			return errors.Wrap(err, "save recipient")
		}
	}

	if r, ok := c.receivers[string(dest)]; ok {
		if err := r(ctx, db, src, amount); err != nil {
			return errors.Wrap(err, "receiver")
		}
	}
	return nil
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
//
// Note the amount may also be negative:
// "the lord giveth and the lord taketh away"
func (c *BaseController) IssueCoins(db remit.KVStore, dest remit.Address, amount int64) error {
	got, err := c.bucket.Balance(db, dest)
	if err != nil {
		return err
	}
	if amount > 0 && got > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "wallet balance")
	}
	if got+amount < 0 {
		return errors.Wrapf(errors.ErrInsufficientAmount, "have %d, take %d", got, -amount)
	}
	return c.bucket.Save(db, dest, got+amount)
}
