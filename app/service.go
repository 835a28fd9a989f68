package app

import (
	"context"
	"sync"
	"time"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/metrics"
	"github.com/iov-one/remit/x"
	"github.com/iov-one/remit/x/cash"
	"github.com/iov-one/remit/x/remittance"
	"github.com/iov-one/remit/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Names of the operations as seen in logs and metrics.
const (
	opGenesis  = "genesis"
	opCreate   = "create"
	opResolve  = "resolve"
	opClaim    = "claim"
	opWithdraw = "withdraw"
	opBalance  = "balance"
	opPending  = "pending"
	opAudit    = "audit"
)

// Service executes ledger operations one at a time. Every operation runs
// inside a savepoint over the committed store and is committed only if it
// succeeds.
type Service struct {
	mu sync.Mutex

	db     remit.CommitKVStore
	cash   *cash.BaseController
	ledger *remittance.Ledger

	logger  log.Logger
	mode    ErrorMode
	now     func() time.Time
	metrics *metrics.Metrics

	ledgerOpts []remittance.Option
	deliver    Decorators
	simulate   Decorators
}

// runningKey marks a context of an operation executed by a Service.
type runningKey struct{}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for all operations.
func WithLogger(l log.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithErrorMode sets how failures are presented.
func WithErrorMode(m ErrorMode) Option {
	return func(s *Service) {
		s.mode = m
	}
}

// WithClock sets the source of the execution time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMetrics instruments all operations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLedgerOptions configures the ledger.
func WithLedgerOptions(opts ...remittance.Option) Option {
	return func(s *Service) {
		s.ledgerOpts = append(s.ledgerOpts, opts...)
	}
}

// NewService returns a service operating on given store and identifying
// callers with given authenticator.
func NewService(db remit.CommitKVStore, auth x.Authenticator, opts ...Option) *Service {
	s := &Service{
		db:     db,
		cash:   cash.NewController(cash.NewBucket()),
		logger: remit.DefaultLogger,
		mode:   Descriptive,
		now:    time.Now,
	}
	for _, fn := range opts {
		fn(s)
	}
	s.ledger = remittance.NewLedger(auth, s.cash, s.ledgerOpts...)

	s.deliver = ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		s.metrics,
		utils.NewSavepoint(),
	)
	s.simulate = ChainDecorators(
		utils.NewRecovery(),
		utils.NewLogging(),
		utils.NewSavepoint().Discarding(),
	)
	return s
}

// Ledger returns the ledger used by this service.
func (s *Service) Ledger() *remittance.Ledger {
	return s.ledger
}

// Cash returns the controller of wallet balances.
func (s *Service) Cash() *cash.BaseController {
	return s.cash
}

// run executes an operation through the decorator chain. Simulated
// operations never change the state.
//
// Code run by an operation, such as a receiver of a transfer, must use the
// ledger with the store it was given. Calling the service again from there
// fails with ErrHuman.
func (s *Service) run(ctx context.Context, op string, simulate bool, fn remit.HandlerFunc) (interface{}, error) {
	if running, _ := ctx.Value(runningKey{}).(*Service); running == s {
		err := errors.Wrap(errors.ErrHuman, "reentrant service call, use the ledger with the given store")
		return nil, render(s.mode, op, err)
	}
	ctx = context.WithValue(ctx, runningKey{}, s)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := remit.GetTime(ctx); !ok {
		ctx = remit.WithTime(ctx, s.now())
	}
	ctx = remit.WithOperation(ctx, op)
	ctx = remit.WithLogger(ctx, s.logger.With("simulate", simulate))

	chain := s.deliver
	if simulate {
		chain = s.simulate
	}

	cache := s.db.CacheWrap()
	defer cache.Discard()

	res, err := chain.WithHandler(fn).Deliver(ctx, cache)
	if err != nil {
		return nil, render(s.mode, op, err)
	}
	if err := cache.Write(); err != nil {
		return nil, render(s.mode, op, errors.Wrap(errors.ErrDatabase, err.Error()))
	}
	return res.Data, nil
}

// Genesis initializes wallet balances.
func (s *Service) Genesis(ctx context.Context, wallets []cash.GenesisWallet) error {
	_, err := s.run(ctx, opGenesis, false, func(ctx context.Context, db remit.KVStore) (*remit.DeliverResult, error) {
		if err := cash.FromGenesis(db, s.cash, wallets); err != nil {
			return nil, err
		}
		return &remit.DeliverResult{Log: "genesis loaded"}, nil
	})
	return err
}

// DerivePuzzle computes the puzzle of given secrets. It does not access the
// state.
func (s *Service) DerivePuzzle(a, b []byte) remittance.Puzzle {
	return s.ledger.Derive(a, b)
}

func (s *Service) create(ctx context.Context, simulate bool, puzzle remittance.Puzzle, amount int64) (*remittance.NoteCreated, error) {
	res, err := s.run(ctx, opCreate, simulate, func(ctx context.Context, db remit.KVStore) (*remit.DeliverResult, error) {
		ev, err := s.ledger.Create(ctx, db, puzzle, amount)
		if err != nil {
			return nil, err
		}
		return &remit.DeliverResult{Log: "note created", Data: ev}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*remittance.NoteCreated), nil
}

// CreateNote locks amount under given puzzle.
func (s *Service) CreateNote(ctx context.Context, puzzle remittance.Puzzle, amount int64) (*remittance.NoteCreated, error) {
	return s.create(ctx, false, puzzle, amount)
}

// CreateNoteWithSecrets locks amount under the puzzle of given secrets.
func (s *Service) CreateNoteWithSecrets(ctx context.Context, a, b []byte, amount int64) (*remittance.NoteCreated, error) {
	return s.create(ctx, false, s.ledger.Derive(a, b), amount)
}

// SimulateCreateNote returns the result CreateNote would have without
// changing the state.
func (s *Service) SimulateCreateNote(ctx context.Context, puzzle remittance.Puzzle, amount int64) (*remittance.NoteCreated, error) {
	return s.create(ctx, true, puzzle, amount)
}

// SimulateCreateNoteWithSecrets returns the result CreateNoteWithSecrets
// would have without changing the state.
func (s *Service) SimulateCreateNoteWithSecrets(ctx context.Context, a, b []byte, amount int64) (*remittance.NoteCreated, error) {
	return s.create(ctx, true, s.ledger.Derive(a, b), amount)
}

// ResolveNote returns the note locked under given puzzle.
func (s *Service) ResolveNote(ctx context.Context, puzzle remittance.Puzzle) (*remittance.NoteView, error) {
	res, err := s.run(ctx, opResolve, false, func(ctx context.Context, db remit.KVStore) (*remit.DeliverResult, error) {
		view, err := s.ledger.Resolve(db, puzzle)
		if err != nil {
			return nil, err
		}
		return &remit.DeliverResult{Data: view}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*remittance.NoteView), nil
}

func (s *Service) claim(ctx context.Context, simulate bool, a, b []byte) (*remittance.NoteClaimed, error) {
	res, err := s.run(ctx, opClaim, simulate, func(ctx context.Context, db remit.KVStore) (*remit.DeliverResult, error) {
		ev, err := s.ledger.Claim(ctx, db, a, b)
		if err != nil {
			return nil, err
		}
		return &remit.DeliverResult{Log: "note claimed", Data: ev}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*remittance.NoteClaimed), nil
}

// Claim pays the note locked under the puzzle of given secrets to the
// caller.
func (s *Service) Claim(ctx context.Context, a, b []byte) (*remittance.NoteClaimed, error) {
	return s.claim(ctx, false, a, b)
}

// SimulateClaim returns the result Claim would have without changing the
// state.
func (s *Service) SimulateClaim(ctx context.Context, a, b []byte) (*remittance.NoteClaimed, error) {
	return s.claim(ctx, true, a, b)
}

func (s *Service) withdraw(ctx context.Context, simulate bool) (*remittance.PaymentWithdrawn, error) {
	res, err := s.run(ctx, opWithdraw, simulate, func(ctx context.Context, db remit.KVStore) (*remit.DeliverResult, error) {
		ev, err := s.ledger.Withdraw(ctx, db)
		if err != nil {
			return nil, err
		}
		return &remit.DeliverResult{Log: "payment withdrawn", Data: ev}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*remittance.PaymentWithdrawn), nil
}

// Withdraw pays out the pending balance of the caller.
func (s *Service) Withdraw(ctx context.Context) (*remittance.PaymentWithdrawn, error) {
	return s.withdraw(ctx, false)
}

// SimulateWithdraw returns the result Withdraw would have without changing
// the state.
func (s *Service) SimulateWithdraw(ctx context.Context) (*remittance.PaymentWithdrawn, error) {
	return s.withdraw(ctx, true)
}

func (s *Service) query(ctx context.Context, op string, fn func(db remit.ReadOnlyKVStore) (int64, error)) (int64, error) {
	res, err := s.run(ctx, op, false, func(ctx context.Context, db remit.KVStore) (*remit.DeliverResult, error) {
		n, err := fn(db)
		if err != nil {
			return nil, err
		}
		return &remit.DeliverResult{Data: n}, nil
	})
	if err != nil {
		return 0, err
	}
	return res.(int64), nil
}

// Balance returns the wallet balance of given address.
func (s *Service) Balance(ctx context.Context, addr remit.Address) (int64, error) {
	return s.query(ctx, opBalance, func(db remit.ReadOnlyKVStore) (int64, error) {
		return s.cash.Balance(db, addr)
	})
}

// Pending returns the value credited to given address and not withdrawn
// yet.
func (s *Service) Pending(ctx context.Context, addr remit.Address) (int64, error) {
	return s.query(ctx, opPending, func(db remit.ReadOnlyKVStore) (int64, error) {
		return s.ledger.Pending(db, addr)
	})
}

// Custody returns the value held by the ledger.
func (s *Service) Custody(ctx context.Context) (int64, error) {
	return s.Balance(ctx, s.ledger.Custody())
}

// Audit verifies that the custody covers all open notes and pending
// balances.
func (s *Service) Audit(ctx context.Context) (*remittance.Report, error) {
	res, err := s.run(ctx, opAudit, false, func(ctx context.Context, db remit.KVStore) (*remit.DeliverResult, error) {
		report, err := s.ledger.Audit(db)
		if err != nil {
			return nil, err
		}
		return &remit.DeliverResult{Data: report}, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*remittance.Report), nil
}
