package remit

import (
	"context"
)

// Handler executes a single ledger operation against the store.
type Handler interface {
	Deliver(ctx context.Context, db KVStore) (*DeliverResult, error)
}

// HandlerFunc allows to use a function as a Handler.
type HandlerFunc func(ctx context.Context, db KVStore) (*DeliverResult, error)

var _ Handler = HandlerFunc(nil)

// Deliver calls the function.
func (fn HandlerFunc) Deliver(ctx context.Context, db KVStore) (*DeliverResult, error) {
	return fn(ctx, db)
}

// Decorator wraps a Handler to provide common functionality
// like logging, or rollback on failure, to many Handlers
type Decorator interface {
	Deliver(ctx context.Context, db KVStore, next Handler) (*DeliverResult, error)
}

// DeliverResult is returned by a successfully executed operation.
type DeliverResult struct {
	// Log is a human readable summary of what happened.
	Log string
	// Data is the operation result, for example an event or a view.
	Data interface{}
}
