package remittance

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/remittest"
	"github.com/iov-one/remit/remittest/assert"
	"github.com/iov-one/remit/store"
	"github.com/iov-one/remit/x/cash"
)

type fixture struct {
	ctx   context.Context
	auth  *remittest.CtxAuth
	db    remit.CacheableKVStore
	cash  *cash.BaseController
	admin remit.Condition
	alice remit.Condition
	bob   remit.Condition
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   remit.WithTime(context.Background(), time.Unix(1550000000, 0)),
		auth:  &remittest.CtxAuth{Key: "auth"},
		db:    store.MemStore(),
		cash:  cash.NewController(cash.NewBucket()),
		admin: remittest.SequenceCondition(1),
		alice: remittest.SequenceCondition(2),
		bob:   remittest.SequenceCondition(3),
	}
	for _, c := range []remit.Condition{f.admin, f.alice, f.bob} {
		assert.Nil(t, f.cash.IssueCoins(f.db, c.Address(), 100))
	}
	return f
}

// as returns a context authenticated as given signer.
func (f *fixture) as(c remit.Condition) context.Context {
	return f.auth.SetConditions(f.ctx, c)
}

func (f *fixture) ledger(opts ...Option) *Ledger {
	opts = append([]Option{WithCreationPolicy(AdminOnly{Admin: f.admin.Address()})}, opts...)
	return NewLedger(f.auth, f.cash, opts...)
}

func (f *fixture) balance(t testing.TB, addr remit.Address) int64 {
	t.Helper()
	b, err := f.cash.Balance(f.db, addr)
	assert.Nil(t, err)
	return b
}

func TestCreateThenResolveOpen(t *testing.T) {
	f := newFixture(t)
	l := f.ledger()

	ev, err := l.CreateWithSecrets(f.as(f.admin), f.db, []byte("123"), []byte("456"), 10)
	assert.Nil(t, err)
	puzzle := l.Derive([]byte("123"), []byte("456"))
	assert.Equal(t, &NoteCreated{Puzzle: puzzle, Amount: 10}, ev)

	view, err := l.Resolve(f.db, puzzle)
	assert.Nil(t, err)
	assert.Equal(t, &NoteView{Puzzle: puzzle, Amount: 10, Open: true}, view)
}

func TestClaimWithMatchingSecrets(t *testing.T) {
	f := newFixture(t)
	l := f.ledger()
	_, err := l.CreateWithSecrets(f.as(f.admin), f.db, []byte("123"), []byte("456"), 10)
	assert.Nil(t, err)

	ev, err := l.Claim(f.as(f.bob), f.db, []byte("123"), []byte("456"))
	assert.Nil(t, err)
	puzzle := l.Derive([]byte("123"), []byte("456"))
	assert.Equal(t, &NoteClaimed{Puzzle: puzzle, Claimant: f.bob.Address(), Amount: 10}, ev)
	assert.Equal(t, int64(110), f.balance(t, f.bob.Address()))

	view, err := l.Resolve(f.db, puzzle)
	assert.Nil(t, err)
	assert.Equal(t, &NoteView{Puzzle: puzzle, Amount: 10, Claimant: f.bob.Address(), Open: false}, view)
}

func TestClaimWithWrongSecrets(t *testing.T) {
	f := newFixture(t)
	l := f.ledger()
	_, err := l.CreateWithSecrets(f.as(f.admin), f.db, []byte("123"), []byte("456"), 10)
	assert.Nil(t, err)

	_, err = l.Claim(f.as(f.bob), f.db, []byte("777"), []byte("666"))
	assert.IsErr(t, ErrInvalidClaim, err)
	assert.Equal(t, int64(100), f.balance(t, f.bob.Address()))

	view, err := l.Resolve(f.db, l.Derive([]byte("123"), []byte("456")))
	assert.Nil(t, err)
	assert.Equal(t, true, view.Open)
	assert.Equal(t, int64(10), view.Amount)
	assert.Nil(t, view.Claimant)
}

func TestNonAdminCannotCreate(t *testing.T) {
	f := newFixture(t)
	l := f.ledger()

	_, err := l.CreateWithSecrets(f.as(f.alice), f.db, []byte("123"), []byte("456"), 10)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, int64(100), f.balance(t, f.alice.Address()))

	_, err = l.Resolve(f.db, l.Derive([]byte("123"), []byte("456")))
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestCreate(t *testing.T) {
	puzzle := DerivePuzzle([]byte("123"), []byte("456"))

	cases := map[string]struct {
		opts    []Option
		signer  func(*fixture) context.Context
		prepare func(t *testing.T, f *fixture, l *Ledger)
		puzzle  Puzzle
		amount  int64
		wantErr *errors.Error
	}{
		"admin creates a note": {
			signer: func(f *fixture) context.Context { return f.as(f.admin) },
			puzzle: puzzle,
			amount: 10,
		},
		"anyone policy allows other callers": {
			opts:   []Option{WithCreationPolicy(Anyone{})},
			signer: func(f *fixture) context.Context { return f.as(f.alice) },
			puzzle: puzzle,
			amount: 10,
		},
		"unauthenticated caller": {
			opts:    []Option{WithCreationPolicy(Anyone{})},
			signer:  func(f *fixture) context.Context { return f.ctx },
			puzzle:  puzzle,
			amount:  10,
			wantErr: errors.ErrUnauthorized,
		},
		"zero amount": {
			signer:  func(f *fixture) context.Context { return f.as(f.admin) },
			puzzle:  puzzle,
			amount:  0,
			wantErr: errors.ErrAmount,
		},
		"negative amount": {
			signer:  func(f *fixture) context.Context { return f.as(f.admin) },
			puzzle:  puzzle,
			amount:  -1,
			wantErr: errors.ErrAmount,
		},
		"malformed puzzle": {
			signer:  func(f *fixture) context.Context { return f.as(f.admin) },
			puzzle:  Puzzle("short"),
			amount:  10,
			wantErr: errors.ErrInput,
		},
		"insufficient funds": {
			signer:  func(f *fixture) context.Context { return f.as(f.admin) },
			puzzle:  puzzle,
			amount:  101,
			wantErr: errors.ErrInsufficientAmount,
		},
		"open note exists": {
			signer: func(f *fixture) context.Context { return f.as(f.admin) },
			prepare: func(t *testing.T, f *fixture, l *Ledger) {
				_, err := l.Create(f.as(f.admin), f.db, puzzle, 5)
				assert.Nil(t, err)
			},
			puzzle:  puzzle,
			amount:  10,
			wantErr: ErrDuplicateNote,
		},
		"claimed note exists": {
			signer: func(f *fixture) context.Context { return f.as(f.admin) },
			prepare: func(t *testing.T, f *fixture, l *Ledger) {
				_, err := l.Create(f.as(f.admin), f.db, puzzle, 5)
				assert.Nil(t, err)
				_, err = l.Claim(f.as(f.bob), f.db, []byte("123"), []byte("456"))
				assert.Nil(t, err)
			},
			puzzle:  puzzle,
			amount:  10,
			wantErr: ErrDuplicateNote,
		},
		"reusable puzzles replace a claimed note": {
			opts:   []Option{WithReusablePuzzles()},
			signer: func(f *fixture) context.Context { return f.as(f.admin) },
			prepare: func(t *testing.T, f *fixture, l *Ledger) {
				_, err := l.Create(f.as(f.admin), f.db, puzzle, 5)
				assert.Nil(t, err)
				_, err = l.Claim(f.as(f.bob), f.db, []byte("123"), []byte("456"))
				assert.Nil(t, err)
			},
			puzzle: puzzle,
			amount: 10,
		},
		"reusable puzzles still reject an open note": {
			opts:   []Option{WithReusablePuzzles()},
			signer: func(f *fixture) context.Context { return f.as(f.admin) },
			prepare: func(t *testing.T, f *fixture, l *Ledger) {
				_, err := l.Create(f.as(f.admin), f.db, puzzle, 5)
				assert.Nil(t, err)
			},
			puzzle:  puzzle,
			amount:  10,
			wantErr: ErrDuplicateNote,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			l := f.ledger(tc.opts...)
			if tc.prepare != nil {
				tc.prepare(t, f, l)
			}
			ctx := tc.signer(f)
			funder := signerAddress(f, ctx)
			before := f.balance(t, funder)
			custody := f.balance(t, l.Custody())

			_, err := l.Create(ctx, f.db, tc.puzzle, tc.amount)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				assert.Equal(t, before, f.balance(t, funder))
				assert.Equal(t, custody, f.balance(t, l.Custody()))
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, before-tc.amount, f.balance(t, funder))
			assert.Equal(t, custody+tc.amount, f.balance(t, l.Custody()))

			view, err := l.Resolve(f.db, tc.puzzle)
			assert.Nil(t, err)
			assert.Equal(t, tc.amount, view.Amount)
			assert.Equal(t, true, view.Open)
		})
	}
}

// signerAddress returns the address of the main signer or the admin address
// when the context is not authenticated.
func signerAddress(f *fixture, ctx context.Context) remit.Address {
	conds := f.auth.GetConditions(ctx)
	if len(conds) == 0 {
		return f.admin.Address()
	}
	return conds[0].Address()
}

func TestCreateRequiresExecutionTime(t *testing.T) {
	f := newFixture(t)
	l := f.ledger()
	ctx := f.auth.SetConditions(context.Background(), f.admin)
	_, err := l.CreateWithSecrets(ctx, f.db, []byte("1"), []byte("2"), 1)
	assert.IsErr(t, errors.ErrHuman, err)
}

func TestResolve(t *testing.T) {
	f := newFixture(t)
	l := f.ledger()

	_, err := l.Resolve(f.db, Puzzle("bad"))
	assert.IsErr(t, errors.ErrInput, err)

	_, err = l.Resolve(f.db, DerivePuzzle([]byte("no"), []byte("note")))
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestCustomDeriveFunc(t *testing.T) {
	f := newFixture(t)
	fixed := DerivePuzzle([]byte("fixed"), nil)
	l := f.ledger(WithDeriveFunc(func(a, b []byte) Puzzle { return fixed }))

	_, err := l.CreateWithSecrets(f.as(f.admin), f.db, []byte("x"), []byte("y"), 3)
	assert.Nil(t, err)
	// Any secrets unlock the note when the derivation ignores them.
	_, err = l.Claim(f.as(f.bob), f.db, []byte("a"), []byte("b"))
	assert.Nil(t, err)
}

func TestReentrantCreate(t *testing.T) {
	f := newFixture(t)
	l := f.ledger()
	puzzle := l.Derive([]byte("123"), []byte("456"))

	var (
		calls        int
		reentrantErr error
	)
	f.cash.RegisterReceiver(l.Custody(), func(ctx context.Context, db remit.KVStore, from remit.Address, amount int64) error {
		calls++
		if calls > 1 {
			return nil
		}
		// The puzzle must be observed as taken while the note is
		// being funded.
		_, reentrantErr = l.Create(ctx, db, puzzle, 5)
		return nil
	})

	_, err := l.Create(f.as(f.admin), f.db, puzzle, 10)
	assert.Nil(t, err)
	assert.IsErr(t, ErrDuplicateNote, reentrantErr)
	assert.Equal(t, 1, calls)

	view, err := l.Resolve(f.db, puzzle)
	assert.Nil(t, err)
	assert.Equal(t, int64(10), view.Amount)
	assert.Equal(t, int64(10), f.balance(t, l.Custody()))
	assert.Equal(t, int64(90), f.balance(t, f.admin.Address()))

	report, err := l.Audit(f.db)
	assert.Nil(t, err)
	assert.Equal(t, report.OpenValue, report.Custody)
}

func TestCreateFundingFailureLeavesNoNote(t *testing.T) {
	f := newFixture(t)
	l := f.ledger()
	puzzle := l.Derive([]byte("123"), []byte("456"))

	_, err := l.Create(f.as(f.admin), f.db, puzzle, 1000)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	_, err = l.Resolve(f.db, puzzle)
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.Equal(t, int64(100), f.balance(t, f.admin.Address()))
}

func TestCustomCustody(t *testing.T) {
	f := newFixture(t)
	vault := remittest.SequenceCondition(9).Address()
	l := f.ledger(
		WithCustody(vault),
		WithPayer(NewDirectPayer(f.cash)),
	)
	assert.Equal(t, vault, l.Custody())

	_, err := l.CreateWithSecrets(f.as(f.admin), f.db, []byte("123"), []byte("456"), 10)
	assert.Nil(t, err)
	assert.Equal(t, int64(10), f.balance(t, vault))
	assert.Equal(t, int64(0), f.balance(t, CustodyAddress))

	_, err = l.Claim(f.as(f.bob), f.db, []byte("123"), []byte("456"))
	assert.Nil(t, err)
	assert.Equal(t, int64(0), f.balance(t, vault))
	assert.Equal(t, int64(110), f.balance(t, f.bob.Address()))
}
