package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/remit/config"
	"github.com/iov-one/remit/store/bolt"
	"github.com/iov-one/remit/x/cash"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create the ledger state and fund the wallets declared in the genesis section
of the configuration.

This command fails if the ledger state already exists.
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
	if bolt.Exists(cfg.StatePath()) {
		return fmt.Errorf("ledger state %q already exists", cfg.StatePath())
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("cannot create data directory: %s", err)
	}
	db, err := bolt.Open(cfg.StatePath())
	if err != nil {
		return err
	}
	db.Close()

	s, release, err := openService(cfg)
	if err != nil {
		return err
	}
	wallets := make([]cash.GenesisWallet, len(cfg.Genesis.Wallets))
	for i, w := range cfg.Genesis.Wallets {
		wallets[i] = cash.GenesisWallet{Address: w.Address, Balance: w.Balance}
	}
	err = s.Genesis(context.Background(), wallets)
	if cerr := release(); err == nil {
		err = cerr
	}
	if err != nil {
		// Leave no half initialized state behind.
		os.Remove(cfg.StatePath())
		return err
	}
	_, err = fmt.Fprintf(output, "initialized %s with %d wallets\n", cfg.StatePath(), len(wallets))
	return err
}
