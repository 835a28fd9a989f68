package sigs

import (
	"context"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx context.Context, signers []remit.Condition) context.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate gets/sets permissions on the given context key
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx context.Context) []remit.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]remit.Condition)
	return val
}

// HasAddress returns true if the given address
// had signed in the current Context.
func (a Authenticate) HasAddress(ctx context.Context, addr remit.Address) bool {
	signers := a.GetConditions(ctx)
	for _, s := range signers {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
