// Package config loads the TOML configuration of the remittance ledger.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
)

const (
	defaultLogLevel  = "info"
	defaultPolicy    = PolicyAdmin
	defaultErrorMode = "descriptive"
	stateFile        = "state.db"
)

// Creation policies.
const (
	PolicyAdmin  = "admin"
	PolicyAnyone = "anyone"
)

// Logging is the logging configuration.
type Logging struct {
	// Level is one of "debug", "info", "error" or "none".
	Level string
}

func (l *Logging) validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "error", "none":
		return nil
	}
	return errors.Field("Level", errors.ErrInput, "unknown log level %q", l.Level)
}

// Ledger configures the note ledger.
type Ledger struct {
	// Policy decides who can create notes: "admin" or "anyone".
	Policy string
	// Admin is the only address allowed to create notes under the admin
	// policy. Hex and bech32 formats are accepted.
	Admin remit.Address
	// ReusablePuzzles allows creating a new note for a claimed puzzle.
	ReusablePuzzles bool
	// PullPayments credits claimed value to a pending balance that must
	// be withdrawn.
	PullPayments bool
}

func (l *Ledger) validate() error {
	switch l.Policy {
	case PolicyAdmin:
		if err := l.Admin.Validate(); err != nil {
			return errors.Field("Admin", err, "admin policy requires an admin address")
		}
	case PolicyAnyone:
		if len(l.Admin) != 0 {
			return errors.Field("Admin", errors.ErrInput, "admin is not used by the %q policy", l.Policy)
		}
	default:
		return errors.Field("Policy", errors.ErrInput, "unknown policy %q", l.Policy)
	}
	return nil
}

// Errors configures how failures are presented to the caller.
type Errors struct {
	// Mode is one of "generic", "descriptive" or "debug".
	Mode string
}

func (e *Errors) validate() error {
	switch e.Mode {
	case "generic", "descriptive", "debug":
		return nil
	}
	return errors.Field("Mode", errors.ErrInput, "unknown error mode %q", e.Mode)
}

// Metrics configures the prometheus endpoint.
type Metrics struct {
	// Address is the host:port the metrics endpoint listens on. Empty
	// disables the endpoint.
	Address string
}

// Wallet is an initial balance.
type Wallet struct {
	Address remit.Address
	Balance int64
}

// Genesis is the initial ledger state.
type Genesis struct {
	Wallets []Wallet
}

func (g *Genesis) validate() error {
	var errs error
	for i, w := range g.Wallets {
		if err := w.Address.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Wallets", err, "wallet %d", i))
		}
		if w.Balance < 0 {
			errs = errors.Append(errs, errors.Field("Wallets", errors.ErrAmount, "wallet %d: negative balance", i))
		}
	}
	return errs
}

// Config is the top level configuration.
type Config struct {
	// DataDir is where the ledger state is stored.
	DataDir string

	Logging *Logging
	Ledger  *Ledger
	Errors  *Errors
	Metrics *Metrics
	Genesis *Genesis
}

// StatePath returns the path of the state database.
func (cfg *Config) StatePath() string {
	return filepath.Join(cfg.DataDir, stateFile)
}

// FixupAndValidate applies defaults to config entries and validates the
// configuration.
func (cfg *Config) FixupAndValidate() error {
	if cfg.DataDir == "" {
		return errors.Field("DataDir", errors.ErrEmpty, "config: DataDir is not set")
	}
	if !filepath.IsAbs(cfg.DataDir) {
		return errors.Field("DataDir", errors.ErrInput, "config: DataDir %q is not an absolute path", cfg.DataDir)
	}
	if cfg.Logging == nil {
		cfg.Logging = &Logging{}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if cfg.Ledger == nil {
		cfg.Ledger = &Ledger{}
	}
	if cfg.Ledger.Policy == "" {
		cfg.Ledger.Policy = defaultPolicy
	}
	if cfg.Errors == nil {
		cfg.Errors = &Errors{}
	}
	if cfg.Errors.Mode == "" {
		cfg.Errors.Mode = defaultErrorMode
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &Metrics{}
	}
	if cfg.Genesis == nil {
		cfg.Genesis = &Genesis{}
	}

	var errs error
	errs = errors.AppendField(errs, "Logging", cfg.Logging.validate())
	errs = errors.AppendField(errs, "Ledger", cfg.Ledger.validate())
	errs = errors.AppendField(errs, "Errors", cfg.Errors.validate())
	errs = errors.AppendField(errs, "Genesis", cfg.Genesis.validate())
	return errs
}

// Load parses and validates the provided buffer b as a config file body and
// returns the Config.
func Load(b []byte) (*Config, error) {
	cfg := new(Config)
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "config: %s", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, errors.Wrap(errors.ErrInput, fmt.Sprintf("config: Undecoded keys in config file: %v", undecoded))
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses and validates the provided file and returns the
// Config.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "config: %s", err)
	}
	return Load(b)
}
