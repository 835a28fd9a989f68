package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/remit/config"
	"github.com/iov-one/remit/crypto"
)

func cmdPuzzle(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the puzzle of two secrets. Order of the secrets matters.

This command does not change the ledger state.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = fl.String("config", defaultConfigPath(),
			"Path to the configuration file. You can use REMIT_CONFIG environment variable to set it.")
		aFl = fl.String("a", "", "First secret.")
		bFl = fl.String("b", "", "Second secret.")
	)
	fl.Parse(args)

	cfg, err := config.LoadFile(*configFl)
	if err != nil {
		return err
	}
	s, release, err := openService(cfg)
	if err != nil {
		return err
	}
	defer release()

	_, err = fmt.Fprintln(output, s.DerivePuzzle([]byte(*aFl), []byte(*bFl)))
	return err
}

func cmdCreate(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a remittance note. The amount is taken from the wallet of the signer
and can be claimed by anyone knowing both secrets.

The puzzle can be given directly, so that the secrets are never revealed to
the creator.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = fl.String("config", defaultConfigPath(),
			"Path to the configuration file. You can use REMIT_CONFIG environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that the request is signed with. You can use REMIT_PRIV_KEY environment variable to set it.")
		aFl        = fl.String("a", "", "First secret.")
		bFl        = fl.String("b", "", "Second secret.")
		puzzleFl   = fl.String("puzzle", "", "Hex encoded puzzle. Secrets are ignored if set.")
		amountFl   = fl.Int64("amount", 0, "Value locked in the note.")
		simulateFl = fl.Bool("simulate", false, "Print out the result without changing the ledger state.")
	)
	fl.Parse(args)

	cfg, err := config.LoadFile(*configFl)
	if err != nil {
		return err
	}
	key, err := crypto.LoadKeyFile(*keyPathFl)
	if err != nil {
		return err
	}
	s, release, err := openService(cfg)
	if err != nil {
		return err
	}
	defer release()

	puzzle, err := puzzleFromFlags(s, *puzzleFl, *aFl, *bFl)
	if err != nil {
		return err
	}
	ctx, err := signed(key, "create", puzzle, amountBytes(*amountFl))
	if err != nil {
		return err
	}
	create := s.CreateNote
	if *simulateFl {
		create = s.SimulateCreateNote
	}
	ev, err := create(ctx, puzzle, *amountFl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "created\t%s\namount\t%d\n", ev.Puzzle, ev.Amount)
	return err
}

func cmdResolve(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the note stored under a puzzle.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = fl.String("config", defaultConfigPath(),
			"Path to the configuration file. You can use REMIT_CONFIG environment variable to set it.")
		aFl      = fl.String("a", "", "First secret.")
		bFl      = fl.String("b", "", "Second secret.")
		puzzleFl = fl.String("puzzle", "", "Hex encoded puzzle. Secrets are ignored if set.")
	)
	fl.Parse(args)

	cfg, err := config.LoadFile(*configFl)
	if err != nil {
		return err
	}
	s, release, err := openService(cfg)
	if err != nil {
		return err
	}
	defer release()

	puzzle, err := puzzleFromFlags(s, *puzzleFl, *aFl, *bFl)
	if err != nil {
		return err
	}
	view, err := s.ResolveNote(context.Background(), puzzle)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "puzzle\t%s\namount\t%d\nclaimant\t%s\nopen\t%t\n",
		view.Puzzle, view.Amount, printAddress(view.Claimant), view.Open)
	return err
}

func cmdClaim(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Claim the note locked under the puzzle of two secrets. The value is paid to
the signer, or credited to the signer pending balance when the ledger uses
pull payments.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = fl.String("config", defaultConfigPath(),
			"Path to the configuration file. You can use REMIT_CONFIG environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that the request is signed with. You can use REMIT_PRIV_KEY environment variable to set it.")
		aFl        = fl.String("a", "", "First secret.")
		bFl        = fl.String("b", "", "Second secret.")
		simulateFl = fl.Bool("simulate", false, "Print out the result without changing the ledger state.")
	)
	fl.Parse(args)

	cfg, err := config.LoadFile(*configFl)
	if err != nil {
		return err
	}
	key, err := crypto.LoadKeyFile(*keyPathFl)
	if err != nil {
		return err
	}
	s, release, err := openService(cfg)
	if err != nil {
		return err
	}
	defer release()

	a, b := []byte(*aFl), []byte(*bFl)
	ctx, err := signed(key, "claim", a, b)
	if err != nil {
		return err
	}
	claim := s.Claim
	if *simulateFl {
		claim = s.SimulateClaim
	}
	ev, err := claim(ctx, a, b)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "claimed\t%s\namount\t%d\nclaimant\t%s\n", ev.Puzzle, ev.Amount, ev.Claimant)
	return err
}

func cmdWithdraw(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Pay out the pending balance of the signer. Only available when the ledger
uses pull payments.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = fl.String("config", defaultConfigPath(),
			"Path to the configuration file. You can use REMIT_CONFIG environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that the request is signed with. You can use REMIT_PRIV_KEY environment variable to set it.")
		simulateFl = fl.Bool("simulate", false, "Print out the result without changing the ledger state.")
	)
	fl.Parse(args)

	cfg, err := config.LoadFile(*configFl)
	if err != nil {
		return err
	}
	key, err := crypto.LoadKeyFile(*keyPathFl)
	if err != nil {
		return err
	}
	s, release, err := openService(cfg)
	if err != nil {
		return err
	}
	defer release()

	ctx, err := signed(key, "withdraw")
	if err != nil {
		return err
	}
	withdraw := s.Withdraw
	if *simulateFl {
		withdraw = s.SimulateWithdraw
	}
	ev, err := withdraw(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "withdrawn\t%d\npayee\t%s\n", ev.Amount, ev.Payee)
	return err
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the wallet balance and the pending balance of an address. When no
address is given, the address of the private key is used.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = fl.String("config", defaultConfigPath(),
			"Path to the configuration file. You can use REMIT_CONFIG environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use REMIT_PRIV_KEY environment variable to set it.")
		addrFl    = fl.String("addr", "", "Address in hex, cond: or bech32: format.")
		custodyFl = fl.Bool("custody", false, "Print out the value held by the ledger instead.")
	)
	fl.Parse(args)

	cfg, err := config.LoadFile(*configFl)
	if err != nil {
		return err
	}
	s, release, err := openService(cfg)
	if err != nil {
		return err
	}
	defer release()

	ctx := context.Background()
	if *custodyFl {
		custody, err := s.Custody(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(output, "custody\t%d\n", custody)
		return err
	}

	addr, err := addressFromFlags(*addrFl, *keyPathFl)
	if err != nil {
		return err
	}
	balance, err := s.Balance(ctx, addr)
	if err != nil {
		return err
	}
	pending, err := s.Pending(ctx, addr)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "address\t%s\nbalance\t%d\npending\t%d\n", addr, balance, pending)
	return err
}

func cmdAudit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Verify that the ledger custody covers all open notes and pending balances.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = fl.String("config", defaultConfigPath(),
			"Path to the configuration file. You can use REMIT_CONFIG environment variable to set it.")
	)
	fl.Parse(args)

	cfg, err := config.LoadFile(*configFl)
	if err != nil {
		return err
	}
	s, release, err := openService(cfg)
	if err != nil {
		return err
	}
	defer release()

	r, err := s.Audit(context.Background())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "open notes\t%d\nclaimed notes\t%d\nopen value\t%d\npending value\t%d\ncustody\t%d\n",
		r.OpenNotes, r.ClaimedNotes, r.OpenValue, r.PendingValue, r.Custody)
	return err
}
