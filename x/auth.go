package x

import (
	"context"

	"github.com/iov-one/remit"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// extensions, so we can plug in another authentication system, rather than
// hard-coding x/sigs for all of them.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(context.Context) []remit.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(context.Context, remit.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx context.Context) []remit.Condition {
	var res []remit.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx context.Context, addr remit.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx context.Context, auth Authenticator) []remit.Address {
	perms := auth.GetConditions(ctx)
	addrs := make([]remit.Address, len(perms))
	for i, p := range perms {
		addrs[i] = p.Address()
	}
	return addrs
}

// MainSigner returns the first permission if any, otherwise nil
func MainSigner(ctx context.Context, auth Authenticator) remit.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllConditions returns true if all elements in required are
// also in context.
func HasAllConditions(ctx context.Context, auth Authenticator, required []remit.Condition) bool {
	perms := auth.GetConditions(ctx)
	for _, r := range required {
		if !hasPerm(perms, r) {
			return false
		}
	}
	return true
}

func hasPerm(perms []remit.Condition, perm remit.Condition) bool {
	for _, p := range perms {
		if p.Equals(perm) {
			return true
		}
	}
	return false
}
