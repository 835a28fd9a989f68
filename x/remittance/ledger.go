package remittance

import (
	"context"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/store"
	"github.com/iov-one/remit/x"
	"github.com/iov-one/remit/x/cash"
)

// CustodyAddress holds the value of all notes that were not paid out yet.
var CustodyAddress = remit.NewCondition("remit", "custody", []byte("ledger")).Address()

// Ledger owns the note bucket. All note state changes go through it.
type Ledger struct {
	auth     x.Authenticator
	cash     cash.Controller
	custody  remit.Address
	policy   CreationPolicy
	reusable bool
	payer    Payer
	derive   DeriveFunc
	notes    NoteBucket
	pending  PendingBucket
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithCreationPolicy sets who can create notes. By default only callers
// allowed by the AdminOnly policy with no administrator, so nobody, can.
func WithCreationPolicy(p CreationPolicy) Option {
	return func(l *Ledger) {
		l.policy = p
	}
}

// WithReusablePuzzles allows a claimed note to be replaced by a new open
// note under the same puzzle. By default every puzzle can be used once.
func WithReusablePuzzles() Option {
	return func(l *Ledger) {
		l.reusable = true
	}
}

// WithPullPayments credits claimed value to the claimant pending balance
// instead of paying it directly. Pending value is paid out by Withdraw.
func WithPullPayments() Option {
	return func(l *Ledger) {
		l.payer = PendingPayer{bucket: l.pending}
	}
}

// WithPayer replaces the payer used to pay claimed notes.
func WithPayer(p Payer) Option {
	return func(l *Ledger) {
		l.payer = p
	}
}

// WithDeriveFunc replaces the puzzle derivation.
func WithDeriveFunc(fn DeriveFunc) Option {
	return func(l *Ledger) {
		l.derive = fn
	}
}

// WithCustody sets the address holding the value of notes.
func WithCustody(addr remit.Address) Option {
	return func(l *Ledger) {
		l.custody = addr
	}
}

// NewLedger returns a ledger moving value with given controller and
// identifying callers with given authenticator.
func NewLedger(auth x.Authenticator, ctrl cash.Controller, opts ...Option) *Ledger {
	l := &Ledger{
		auth:    auth,
		cash:    ctrl,
		custody: CustodyAddress,
		policy:  AdminOnly{},
		derive:  DerivePuzzle,
		notes:   NewNoteBucket(),
		pending: NewPendingBucket(),
	}
	l.payer = NewDirectPayer(ctrl)
	for _, fn := range opts {
		fn(l)
	}
	return l
}

// Custody returns the address holding the value of notes.
func (l *Ledger) Custody() remit.Address {
	return l.custody
}

// Derive computes the puzzle for given secrets. It does not access any
// state.
func (l *Ledger) Derive(a, b []byte) Puzzle {
	return l.derive(a, b)
}

// CreateWithSecrets derives the puzzle from given secrets and creates a note
// for it.
func (l *Ledger) CreateWithSecrets(ctx context.Context, db remit.KVStore, a, b []byte, amount int64) (*NoteCreated, error) {
	return l.Create(ctx, db, l.derive(a, b), amount)
}

// Create locks amount taken from the caller wallet under given puzzle.
func (l *Ledger) Create(ctx context.Context, db remit.KVStore, puzzle Puzzle, amount int64) (*NoteCreated, error) {
	funder, err := l.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := l.policy.Authorize(ctx, funder); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, errors.Field("Amount", errors.ErrAmount, "must be positive, got %d", amount)
	}
	if err := puzzle.Validate(); err != nil {
		return nil, errors.Field("Puzzle", err, "")
	}
	now, err := execTime(ctx)
	if err != nil {
		return nil, err
	}

	cache := savepoint(db)
	defer cache.Discard()

	var existing Note
	switch err := l.notes.One(cache, puzzle, &existing); {
	case err == nil:
		if existing.Status == Open || !l.reusable {
			return nil, errors.Wrap(ErrDuplicateNote, "Remittance Exist")
		}
	case errors.ErrNotFound.Is(err):
		// First use of this puzzle.
	default:
		return nil, errors.Wrap(err, "load note")
	}

	// The note is stored before the value is moved, so that any code run
	// by the transfer observes the puzzle as taken.
	note := Note{
		Puzzle:    puzzle,
		Funder:    funder,
		Amount:    amount,
		Status:    Open,
		CreatedAt: now,
	}
	if err := l.notes.Put(cache, puzzle, &note); err != nil {
		return nil, errors.Wrap(err, "save note")
	}
	if err := l.cash.MoveCoins(ctx, cache, funder, l.custody, amount); err != nil {
		return nil, errors.Wrap(err, "fund note")
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write")
	}
	return &NoteCreated{Puzzle: puzzle, Amount: amount}, nil
}

// Resolve returns the note stored under given puzzle.
func (l *Ledger) Resolve(db remit.ReadOnlyKVStore, puzzle Puzzle) (*NoteView, error) {
	if err := puzzle.Validate(); err != nil {
		return nil, errors.Field("Puzzle", err, "")
	}
	var n Note
	if err := l.notes.One(db, puzzle, &n); err != nil {
		return nil, err
	}
	return &NoteView{
		Puzzle:   n.Puzzle,
		Amount:   n.Amount,
		Claimant: n.Claimant,
		Open:     n.Status == Open,
	}, nil
}

// closeForClaim marks an open note as claimed by given claimant and returns
// its amount. The note is stored before this function returns.
func (l *Ledger) closeForClaim(db remit.KVStore, puzzle Puzzle, claimant remit.Address, now int64) (int64, error) {
	var n Note
	switch err := l.notes.One(db, puzzle, &n); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		return 0, errors.Wrap(ErrNoOpenNote, "missing")
	default:
		return 0, errors.Wrap(err, "load note")
	}
	if n.Status != Open {
		return 0, errors.Wrap(ErrNoOpenNote, "already claimed")
	}
	if n.Amount <= 0 {
		return 0, errors.Wrapf(errors.ErrHuman, "open note with amount %d", n.Amount)
	}
	n.Status = Claimed
	n.Claimant = claimant
	n.ClaimedAt = now
	if err := l.notes.Put(db, puzzle, &n); err != nil {
		return 0, errors.Wrap(err, "save note")
	}
	return n.Amount, nil
}

// caller returns the address of the main signer.
func (l *Ledger) caller(ctx context.Context) (remit.Address, error) {
	signer := x.MainSigner(ctx, l.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signer.Address(), nil
}

func execTime(ctx context.Context) (int64, error) {
	t, ok := remit.GetTime(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrHuman, "execution time not present in the context")
	}
	return t.Unix(), nil
}

// savepoint returns a scratch pad over given store. Changes are visible in
// the store only after Write.
func savepoint(db remit.KVStore) remit.KVCacheWrap {
	if c, ok := db.(remit.CacheableKVStore); ok {
		return c.CacheWrap()
	}
	return store.NewBTreeCacheWrap(db, db.NewBatch(), nil)
}
