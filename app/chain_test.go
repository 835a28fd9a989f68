package app

import (
	"context"
	"testing"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/x/utils"
	"github.com/stretchr/testify/assert"
)

// countingDecorator counts calls on the way in and on the way out.
type countingDecorator struct {
	count int
}

func (c *countingDecorator) Deliver(ctx context.Context, db remit.KVStore, next remit.Handler) (*remit.DeliverResult, error) {
	c.count++
	res, err := next.Deliver(ctx, db)
	c.count++
	return res, err
}

type panicDecorator struct {
	when string
}

func (p panicDecorator) Deliver(ctx context.Context, db remit.KVStore, next remit.Handler) (*remit.DeliverResult, error) {
	if remit.GetOperation(ctx) == p.when {
		panic("boom")
	}
	return next.Deliver(ctx, db)
}

func TestChain(t *testing.T) {
	c1 := &countingDecorator{}
	c2 := &countingDecorator{}
	c3 := &countingDecorator{}
	var handled int
	h := remit.HandlerFunc(func(context.Context, remit.KVStore) (*remit.DeliverResult, error) {
		handled++
		return &remit.DeliverResult{}, nil
	})

	var nilDecorator *countingDecorator
	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		nilDecorator,
		c2,
		panicDecorator{when: "explode"},
		c3,
	).WithHandler(h)

	bg := context.Background()

	// make some calls, make sure it is fine
	_, err := stack.Deliver(bg, nil)
	assert.NoError(t, err)
	_, err = stack.Deliver(remit.WithOperation(bg, "create"), nil)
	assert.NoError(t, err)

	// decorators are counted double, once in, once out
	assert.Equal(t, 4, c1.count)
	assert.Equal(t, 4, c2.count)
	assert.Equal(t, 4, c3.count)
	assert.Equal(t, 2, handled)

	// now, let's trigger a panic
	_, err = stack.Deliver(remit.WithOperation(bg, "explode"), nil)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 6, c1.count)
	// note that c2 is called in, but not out
	assert.Equal(t, 5, c2.count)
	// and the call does not make it to c3 due to panic
	assert.Equal(t, 4, c3.count)
	assert.Equal(t, 2, handled)
}

func TestChainDoesNotShareBackingArray(t *testing.T) {
	base := ChainDecorators(utils.NewRecovery())
	a := base.Chain(utils.NewLogging())
	b := base.Chain(utils.NewSavepoint())
	assert.Equal(t, 2, len(a.chain))
	assert.Equal(t, 2, len(b.chain))
	assert.IsType(t, utils.Logging{}, a.chain[1])
}
