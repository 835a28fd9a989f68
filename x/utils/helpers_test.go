package utils

import (
	"context"

	"github.com/iov-one/remit"
)

// writeHandler writes the key/value pair and returns the error.
func writeHandler(key, value []byte, err error) remit.Handler {
	return remit.HandlerFunc(func(ctx context.Context, db remit.KVStore) (*remit.DeliverResult, error) {
		if werr := db.Set(key, value); werr != nil {
			return nil, werr
		}
		if err != nil {
			return nil, err
		}
		return &remit.DeliverResult{Log: "written"}, nil
	})
}

type panicHandler struct{}

var _ remit.Handler = panicHandler{}

func (p panicHandler) Deliver(ctx context.Context, store remit.KVStore) (*remit.DeliverResult, error) {
	panic("deliver panic")
}
