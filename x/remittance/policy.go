package remittance

import (
	"context"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

// CreationPolicy decides who is allowed to create notes.
type CreationPolicy interface {
	Authorize(ctx context.Context, caller remit.Address) error
}

// AdminOnly allows only the administrator to create notes.
type AdminOnly struct {
	Admin remit.Address
}

var _ CreationPolicy = AdminOnly{}

// Authorize implements CreationPolicy.
func (p AdminOnly) Authorize(ctx context.Context, caller remit.Address) error {
	if len(p.Admin) == 0 || !p.Admin.Equals(caller) {
		return errors.Wrap(errors.ErrUnauthorized, "only owner can create remittance note")
	}
	return nil
}

// Anyone allows every authenticated caller to create notes.
type Anyone struct{}

var _ CreationPolicy = Anyone{}

// Authorize implements CreationPolicy.
func (Anyone) Authorize(context.Context, remit.Address) error {
	return nil
}
