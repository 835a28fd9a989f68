package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/remit/crypto"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use REMIT_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	// Do not allow to overwrite already existing private key. User must
	// manually delete it first.
	if err := crypto.SaveKeyFile(*keyPathFl, crypto.GenPrivateKey()); err != nil {
		return fmt.Errorf("private key file %q: %s", *keyPathFl, err)
	}
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file. You can use REMIT_PRIV_KEY environment variable to set it.")
		bechFl = fl.Bool("bech32", false, "Print the address using the bech32 format.")
	)
	fl.Parse(args)

	key, err := crypto.LoadKeyFile(*keyPathFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	if !*bechFl {
		_, err = fmt.Fprintln(output, addr)
		return err
	}
	b, err := addr.Bech32()
	if err != nil {
		return fmt.Errorf("cannot serialize to bech32: %s", err)
	}
	_, err = fmt.Fprintln(output, b)
	return err
}
