package remittance

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/orm"
)

// Status is the lifecycle state of a note.
type Status uint8

const (
	// Open notes can be claimed.
	Open Status = iota + 1
	// Claimed notes are closed for good.
	Claimed
)

func (s Status) String() string {
	switch s {
	case Open:
		return "open"
	case Claimed:
		return "claimed"
	default:
		return "unknown"
	}
}

// Note is the escrow record locked under a puzzle.
type Note struct {
	Puzzle    Puzzle        `cbor:"1,keyasint"`
	Funder    remit.Address `cbor:"2,keyasint"`
	Amount    int64         `cbor:"3,keyasint"`
	Claimant  remit.Address `cbor:"4,keyasint,omitempty"`
	Status    Status        `cbor:"5,keyasint"`
	CreatedAt int64         `cbor:"6,keyasint"`
	ClaimedAt int64         `cbor:"7,keyasint,omitempty"`
}

var _ orm.Model = (*Note)(nil)

// Validate ensures the note is consistent.
func (n *Note) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Puzzle", n.Puzzle.Validate())
	errs = errors.AppendField(errs, "Funder", n.Funder.Validate())
	if n.Amount <= 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	switch n.Status {
	case Open:
		if len(n.Claimant) != 0 {
			errs = errors.Append(errs, errors.Field("Claimant", errors.ErrState, "open note cannot have a claimant"))
		}
	case Claimed:
		errs = errors.AppendField(errs, "Claimant", n.Claimant.Validate())
	default:
		errs = errors.Append(errs, errors.Field("Status", errors.ErrState, "unknown status %d", n.Status))
	}
	return errs
}

// NoteBucket stores notes keyed by their puzzle.
type NoteBucket struct {
	orm.ModelBucket
}

// NewNoteBucket returns a bucket for storing notes.
func NewNoteBucket() NoteBucket {
	return NoteBucket{
		ModelBucket: orm.NewModelBucket("note", &Note{}),
	}
}

// Pending is the value credited to a claimant that was not withdrawn yet.
type Pending struct {
	Amount int64 `cbor:"1,keyasint"`
}

var _ orm.Model = (*Pending)(nil)

// Validate ensures the pending balance is positive.
func (p *Pending) Validate() error {
	if p.Amount <= 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

// PendingBucket stores pending balances keyed by the payee address.
type PendingBucket struct {
	orm.ModelBucket
}

// NewPendingBucket returns a bucket for storing pending balances.
func NewPendingBucket() PendingBucket {
	return PendingBucket{
		ModelBucket: orm.NewModelBucket("pending", &Pending{}),
	}
}

// Balance returns the pending balance of given address. No entry means zero.
func (b PendingBucket) Balance(db remit.ReadOnlyKVStore, addr remit.Address) (int64, error) {
	var p Pending
	switch err := b.One(db, addr, &p); {
	case err == nil:
		return p.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}
