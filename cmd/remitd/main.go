package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/remit"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// except the program name and the command name. It is the responsibility of
// the command function to parse the arguments using the flag package. A
// command function is expected to read and write only to provided input and
// output. In a special case of an invalid argument a message to os.Stderr and
// os.Exit(2) call are allowed.
//
// Commands that change the ledger state sign the request with the private
// key given by the -key flag. For example, to pay 10 to whoever knows two
// secrets:
//
//   $ remitd create -a 123 -b 456 -amount 10
//   $ remitd claim -key ~/.bob.priv.key -a 123 -b 456
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"audit":         cmdAudit,
	"balance":       cmdBalance,
	"claim":         cmdClaim,
	"create":        cmdCreate,
	"init":          cmdInit,
	"keyaddr":       cmdKeyaddr,
	"keygen":        cmdKeygen,
	"puzzle":        cmdPuzzle,
	"resolve":       cmdResolve,
	"serve-metrics": cmdServeMetrics,
	"version":       cmdVersion,
	"withdraw":      cmdWithdraw,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s manages a ledger of hash locked remittance notes.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, remit.Version())
	return err
}
