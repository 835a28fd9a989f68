package remittance

import (
	"context"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/x/cash"
)

// Payer hands the value of a claimed note over to the claimant. It is
// called with the store the note was already closed in, so any code it runs
// observes the note as claimed.
type Payer interface {
	Pay(ctx context.Context, db remit.KVStore, custody, claimant remit.Address, amount int64) error
}

// DirectPayer moves the value from the custody to the claimant wallet.
type DirectPayer struct {
	cash cash.Controller
}

var _ Payer = DirectPayer{}

// NewDirectPayer returns a payer moving value with given controller.
func NewDirectPayer(ctrl cash.Controller) DirectPayer {
	return DirectPayer{cash: ctrl}
}

// Pay implements Payer.
func (p DirectPayer) Pay(ctx context.Context, db remit.KVStore, custody, claimant remit.Address, amount int64) error {
	return p.cash.MoveCoins(ctx, db, custody, claimant, amount)
}

// PendingPayer credits the value to the claimant pending balance. The value
// stays in the custody until it is withdrawn.
type PendingPayer struct {
	bucket PendingBucket
}

var _ Payer = PendingPayer{}

// Pay implements Payer.
func (p PendingPayer) Pay(ctx context.Context, db remit.KVStore, custody, claimant remit.Address, amount int64) error {
	have, err := p.bucket.Balance(db, claimant)
	if err != nil {
		return errors.Wrap(err, "pending balance")
	}
	if have > maxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "pending balance")
	}
	return p.bucket.Put(db, claimant, &Pending{Amount: have + amount})
}

const maxInt64 = 1<<63 - 1

// Claim pays the value of the note locked under the puzzle of given secrets
// to the caller. A note can be claimed only once. Wrong secrets and already
// claimed notes both fail with ErrInvalidClaim.
//
// The note is closed before the value is paid. If paying fails, the note
// remains open and ErrTransferFailure is returned.
func (l *Ledger) Claim(ctx context.Context, db remit.KVStore, a, b []byte) (*NoteClaimed, error) {
	claimant, err := l.caller(ctx)
	if err != nil {
		return nil, err
	}
	now, err := execTime(ctx)
	if err != nil {
		return nil, err
	}
	puzzle := l.derive(a, b)

	cache := savepoint(db)
	defer cache.Discard()

	amount, err := l.closeForClaim(cache, puzzle, claimant, now)
	if err != nil {
		if ErrNoOpenNote.Is(err) {
			return nil, errors.Wrap(ErrInvalidClaim, "Remittance Exchanged")
		}
		return nil, err
	}
	if err := l.payer.Pay(ctx, cache, l.custody, claimant, amount); err != nil {
		return nil, ErrTransferFailure.WithCause(err)
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	return &NoteClaimed{Puzzle: puzzle, Claimant: claimant, Amount: amount}, nil
}
