package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/app"
	"github.com/iov-one/remit/config"
	"github.com/iov-one/remit/crypto"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/store/bolt"
	"github.com/iov-one/remit/x/remittance"
	"github.com/iov-one/remit/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

// newLogger returns a logger writing to stdout the entries allowed by the
// configured level.
func newLogger(cfg *config.Config) (log.Logger, error) {
	level := strings.ToLower(cfg.Logging.Level)
	if level == "none" {
		return log.NewNopLogger(), nil
	}
	allowed, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stdout)), allowed), nil
}

// ledgerOptions translates the ledger configuration.
func ledgerOptions(cfg *config.Config) []remittance.Option {
	var opts []remittance.Option
	switch cfg.Ledger.Policy {
	case config.PolicyAnyone:
		opts = append(opts, remittance.WithCreationPolicy(remittance.Anyone{}))
	default:
		opts = append(opts, remittance.WithCreationPolicy(remittance.AdminOnly{Admin: cfg.Ledger.Admin}))
	}
	if cfg.Ledger.ReusablePuzzles {
		opts = append(opts, remittance.WithReusablePuzzles())
	}
	if cfg.Ledger.PullPayments {
		opts = append(opts, remittance.WithPullPayments())
	}
	return opts
}

// openService returns a service operating on the state of the configured
// ledger. The state must be initialized first. Call the returned function to
// release the state.
func openService(cfg *config.Config, opts ...app.Option) (*app.Service, func() error, error) {
	if !bolt.Exists(cfg.StatePath()) {
		return nil, nil, fmt.Errorf("ledger state %q does not exist, run init first", cfg.StatePath())
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	mode, err := app.ParseErrorMode(cfg.Errors.Mode)
	if err != nil {
		return nil, nil, err
	}
	db, err := bolt.Open(cfg.StatePath())
	if err != nil {
		return nil, nil, err
	}
	opts = append([]app.Option{
		app.WithLogger(logger),
		app.WithErrorMode(mode),
		app.WithLedgerOptions(ledgerOptions(cfg)...),
	}, opts...)
	return app.NewService(db, sigs.Authenticate{}, opts...), db.Close, nil
}

// signed returns a context authenticated by the signature of given key over
// the operation and its arguments.
func signed(key *crypto.PrivateKey, operation string, args ...[]byte) (context.Context, error) {
	return sigs.SignAndVerify(context.Background(), key, operation, args...)
}

func amountBytes(amount int64) []byte {
	return []byte(strconv.FormatInt(amount, 10))
}

// puzzleFromFlags returns the puzzle given directly or derived from the
// secrets.
func puzzleFromFlags(s *app.Service, puzzle, a, b string) (remittance.Puzzle, error) {
	if puzzle != "" {
		return remittance.ParsePuzzle(puzzle)
	}
	return s.DerivePuzzle([]byte(a), []byte(b)), nil
}

// addressFromFlags returns the address given directly or the address of the
// key stored in given file.
func addressFromFlags(addr, keyPath string) (remit.Address, error) {
	if addr != "" {
		a, err := remit.ParseAddress(addr)
		if err != nil {
			return nil, err
		}
		return a, a.Validate()
	}
	key, err := crypto.LoadKeyFile(keyPath)
	if err != nil {
		return nil, err
	}
	return key.PublicKey().Address(), nil
}

func printAddress(a remit.Address) string {
	if len(a) == 0 {
		return "-"
	}
	return a.String()
}
