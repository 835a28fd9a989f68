package remittance

import (
	"github.com/iov-one/remit"
)

// Event is a structured record produced by a successful ledger operation.
// Formatting events for the outside world is left to the caller.
type Event interface {
	EventName() string
}

// NoteCreated is produced when a note is created.
type NoteCreated struct {
	Puzzle   Puzzle
	Amount   int64
	Claimant remit.Address
}

// EventName implements Event.
func (NoteCreated) EventName() string { return "note_created" }

// NoteClaimed is produced when a note is claimed.
type NoteClaimed struct {
	Puzzle   Puzzle
	Claimant remit.Address
	Amount   int64
}

// EventName implements Event.
func (NoteClaimed) EventName() string { return "note_claimed" }

// PaymentWithdrawn is produced when a pending balance is paid out.
type PaymentWithdrawn struct {
	Payee  remit.Address
	Amount int64
}

// EventName implements Event.
func (PaymentWithdrawn) EventName() string { return "payment_withdrawn" }

// NoteView is the read only representation of a note.
type NoteView struct {
	Puzzle   Puzzle
	Amount   int64
	Claimant remit.Address
	Open     bool
}
