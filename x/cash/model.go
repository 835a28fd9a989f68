package cash

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the balance of a single address.
type Wallet struct {
	Balance int64 `cbor:"1,keyasint"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate ensures the wallet is not in debt.
func (w *Wallet) Validate() error {
	if w.Balance < 0 {
		return errors.Field("Balance", errors.ErrAmount, "must not be negative")
	}
	return nil
}

// Bucket stores wallets keyed by their owner address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket initializes a cash bucket.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Wallet{}),
	}
}

// Balance returns the balance stored for given address. A missing wallet
// has zero balance.
func (b Bucket) Balance(db remit.ReadOnlyKVStore, addr remit.Address) (int64, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return w.Balance, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Save stores the balance of given address.
func (b Bucket) Save(db remit.KVStore, addr remit.Address, balance int64) error {
	if err := addr.Validate(); err != nil {
		return errors.Field("Address", err, "invalid wallet owner")
	}
	return b.Put(db, addr, &Wallet{Balance: balance})
}
