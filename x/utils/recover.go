package utils

import (
	"context"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

// Recovery is a decorator to recover from panics in operations,
// so we can log them as errors
type Recovery struct{}

var _ remit.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx context.Context, store remit.KVStore, next remit.Handler) (_ *remit.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store)
}
