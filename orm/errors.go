package orm

import (
	"github.com/iov-one/remit/errors"
)

// Orm reserves 100~109 error codes

// ErrIteratorDone is returned by a model iterator when there are no more
// entities to read.
var ErrIteratorDone = errors.Register(101, "iterator done")
