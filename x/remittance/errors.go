package remittance

import (
	"github.com/iov-one/remit/errors"
)

// Remittance reserves 300~309 error codes
var (
	// ErrDuplicateNote is returned when a note for the puzzle already
	// exists.
	ErrDuplicateNote = errors.Register(300, "remittance exists")

	// ErrNoOpenNote is returned when there is no open note to close for
	// a puzzle.
	ErrNoOpenNote = errors.Register(301, "no open remittance")

	// ErrInvalidClaim is returned when the secrets do not unlock an open
	// note. Wrong secrets and already claimed notes are not told apart.
	ErrInvalidClaim = errors.Register(302, "invalid claim")

	// ErrTransferFailure is returned when the value could not be paid out.
	// The ledger state is left as it was before the operation.
	ErrTransferFailure = errors.Register(303, "transfer failure")
)
