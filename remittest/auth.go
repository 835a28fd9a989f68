package remittest

import (
	"context"
	"fmt"

	"github.com/iov-one/remit"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer remit.Condition

	// Signers represents an authentication of multiple signers.
	Signers []remit.Condition
}

func (a *Auth) GetConditions(context.Context) []remit.Condition {
	if a.Signer != nil {
		return append([]remit.Condition{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx context.Context, addr remit.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convinience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx context.Context, permissions ...remit.Condition) context.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), permissions)
}

func (a *CtxAuth) GetConditions(ctx context.Context) []remit.Condition {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	conds, ok := val.([]remit.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []remit.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx context.Context, addr remit.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

type ctxAuthKey string
