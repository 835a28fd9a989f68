package remittance

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/orm"
)

// Report summarizes the value held by the ledger.
type Report struct {
	OpenNotes    int
	ClaimedNotes int
	OpenValue    int64
	PendingValue int64
	Custody      int64
}

// Audit checks that the custody holds at least the value of all open notes
// and all pending balances.
func (l *Ledger) Audit(db remit.ReadOnlyKVStore) (*Report, error) {
	var r Report

	notes, err := l.notes.Iterate(db)
	if err != nil {
		return nil, err
	}
	defer notes.Close()
	for {
		var n Note
		if _, err := notes.Next(&n); err != nil {
			if orm.ErrIteratorDone.Is(err) {
				break
			}
			return nil, err
		}
		switch n.Status {
		case Open:
			r.OpenNotes++
			r.OpenValue += n.Amount
		case Claimed:
			r.ClaimedNotes++
		}
	}

	pending, err := l.pending.Iterate(db)
	if err != nil {
		return nil, err
	}
	defer pending.Close()
	for {
		var p Pending
		if _, err := pending.Next(&p); err != nil {
			if orm.ErrIteratorDone.Is(err) {
				break
			}
			return nil, err
		}
		r.PendingValue += p.Amount
	}

	if r.Custody, err = l.cash.Balance(db, l.custody); err != nil {
		return nil, errors.Wrap(err, "custody balance")
	}
	if r.OpenValue+r.PendingValue > r.Custody {
		return &r, errors.Wrapf(errors.ErrState,
			"custody holds %d, owes %d open and %d pending", r.Custody, r.OpenValue, r.PendingValue)
	}
	return &r, nil
}
