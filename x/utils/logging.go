package utils

import (
	"context"
	"time"

	"github.com/iov-one/remit"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ remit.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx context.Context, store remit.KVStore, next remit.Handler) (*remit.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx context.Context, start time.Time, msg string, err error) {
	delta := time.Since(start)
	logger := remit.GetLogger(ctx).With("duration", delta/time.Microsecond)
	if op := remit.GetOperation(ctx); op != "" {
		logger = logger.With("op", op)
	}

	// Although message can be empty, we still want to emit a log entry
	// because it contains other relevant information beside the message.

	if err != nil {
		logger.Error(msg, "err", err)
	} else {
		logger.Info(msg)
	}
}
