package remittance

import (
	"context"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

// Withdraw pays out the whole pending balance of the caller. The pending
// balance is cleared before the value is moved, so a reentrant withdrawal
// finds nothing to pay.
func (l *Ledger) Withdraw(ctx context.Context, db remit.KVStore) (*PaymentWithdrawn, error) {
	payee, err := l.caller(ctx)
	if err != nil {
		return nil, err
	}

	cache := savepoint(db)
	defer cache.Discard()

	amount, err := l.pending.Balance(cache, payee)
	if err != nil {
		return nil, errors.Wrap(err, "pending balance")
	}
	if amount == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "nothing to withdraw")
	}
	if err := l.pending.Delete(cache, payee); err != nil {
		return nil, errors.Wrap(err, "clear pending balance")
	}
	if err := l.cash.MoveCoins(ctx, cache, l.custody, payee, amount); err != nil {
		return nil, ErrTransferFailure.WithCause(err)
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	return &PaymentWithdrawn{Payee: payee, Amount: amount}, nil
}

// Pending returns the value credited to given address that was not
// withdrawn yet.
func (l *Ledger) Pending(db remit.ReadOnlyKVStore, addr remit.Address) (int64, error) {
	return l.pending.Balance(db, addr)
}
