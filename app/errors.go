package app

import (
	"fmt"

	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/x/remittance"
)

// ErrorMode decides how much of a failure is revealed to the caller.
type ErrorMode int

const (
	// Generic reveals only the error code.
	Generic ErrorMode = iota
	// Descriptive reveals the error message, using the historical
	// messages for the well known failures.
	Descriptive
	// Debug reveals everything, including the stack trace.
	Debug
)

func (m ErrorMode) String() string {
	switch m {
	case Generic:
		return "generic"
	case Descriptive:
		return "descriptive"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("ErrorMode(%d)", int(m))
	}
}

// ParseErrorMode returns the mode of given name.
func ParseErrorMode(name string) (ErrorMode, error) {
	switch name {
	case "generic":
		return Generic, nil
	case "descriptive":
		return Descriptive, nil
	case "debug":
		return Debug, nil
	}
	return Generic, errors.Wrapf(errors.ErrInput, "unknown error mode %q", name)
}

const (
	tagUnauthorizedCreate = "only owner can create remittance note"
	tagNoteExists         = "Remittance Exist"
	tagInvalidClaim       = "Remittance Exchanged"
)

// Error is returned by all Service operations. Its message is rendered
// according to the configured ErrorMode while the original error stays
// available as its cause, so that errors.Is and errors.Code work as usual.
type Error struct {
	code  uint32
	msg   string
	cause error
}

func (e *Error) Error() string {
	return e.msg
}

// Cause returns the original error.
func (e *Error) Cause() error {
	return e.cause
}

// Code returns the code of the original error.
func (e *Error) Code() uint32 {
	return e.code
}

// render converts an operation failure into an error presentable to the
// caller of given operation.
func render(mode ErrorMode, op string, err error) error {
	if err == nil {
		return nil
	}
	code := errors.Code(err)
	var msg string
	switch mode {
	case Debug:
		_, msg = errors.Info(err, true)
	case Descriptive:
		msg = describe(op, err)
	default:
		msg = fmt.Sprintf("operation failed (code %d)", code)
	}
	return &Error{code: code, msg: msg, cause: err}
}

func describe(op string, err error) string {
	switch {
	case errors.ErrPanic.Is(err):
		return errors.Redact(err, false).Error()
	case op == opCreate && errors.ErrUnauthorized.Is(err):
		return tagUnauthorizedCreate
	case remittance.ErrDuplicateNote.Is(err):
		return tagNoteExists
	case remittance.ErrInvalidClaim.Is(err):
		return tagInvalidClaim
	}
	_, msg := errors.Info(err, false)
	return msg
}
