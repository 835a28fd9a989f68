package remit

import (
	"context"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

type contextKey int // local to the remit module

const (
	contextKeyLogger contextKey = iota
	contextKeyTime
	contextKeyOperation
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()
)

// WithLogger sets the logger for this context
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx context.Context, keyvals ...interface{}) context.Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx context.Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// WithTime sets the time of the operation execution. All state changes done
// within the operation use this value as "now".
// Panics if the time was already set.
func WithTime(ctx context.Context, t time.Time) context.Context {
	if _, ok := ctx.Value(contextKeyTime).(time.Time); ok {
		panic("Execution time already set")
	}
	return context.WithValue(ctx, contextKeyTime, t.UTC())
}

// GetTime returns the execution time as set by WithTime.
func GetTime(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(contextKeyTime).(time.Time)
	return t, ok
}

// WithOperation sets the name of the operation that is executed.
func WithOperation(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, contextKeyOperation, name)
}

// GetOperation returns the name of the operation being executed or an
// empty string.
func GetOperation(ctx context.Context) string {
	name, _ := ctx.Value(contextKeyOperation).(string)
	return name
}
