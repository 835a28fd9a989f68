package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/remit/crypto"
)

// testEnv is a ledger state initialized in a temporary directory together
// with keys of three accounts. The admin is the only one allowed to create
// notes.
type testEnv struct {
	config string
	admin  string
	alice  string
	bob    string
}

func newTestEnv(t testing.TB, extra string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	env := &testEnv{
		config: filepath.Join(dir, "config.toml"),
		admin:  mustKeyFile(t, dir, "admin", 1),
		alice:  mustKeyFile(t, dir, "alice", 2),
		bob:    mustKeyFile(t, dir, "bob", 3),
	}
	conf := fmt.Sprintf(`
DataDir = %q

[Logging]
Level = "none"

[Ledger]
Admin = %q
%s

[[Genesis.Wallets]]
Address = %q
Balance = 100

[[Genesis.Wallets]]
Address = %q
Balance = 100

[[Genesis.Wallets]]
Address = %q
Balance = 100
`, filepath.Join(dir, "data"), keyAddress(t, env.admin), extra,
		keyAddress(t, env.admin), keyAddress(t, env.alice), keyAddress(t, env.bob))
	if err := os.WriteFile(env.config, []byte(conf), 0600); err != nil {
		t.Fatalf("cannot write config: %s", err)
	}

	env.mustRun(t, cmdInit)
	return env
}

type command func(input io.Reader, output io.Writer, args []string) error

// mustRun executes the command with the test configuration and returns its
// output.
func (e *testEnv) mustRun(t testing.TB, cmd command, args ...string) string {
	t.Helper()
	out, err := e.run(cmd, args...)
	if err != nil {
		t.Fatalf("command failed: %s", err)
	}
	return out
}

func (e *testEnv) run(cmd command, args ...string) (string, error) {
	var output bytes.Buffer
	args = append([]string{"-config", e.config}, args...)
	err := cmd(strings.NewReader(""), &output, args)
	return output.String(), err
}

func mustKeyFile(t testing.TB, dir, name string, seed byte) string {
	t.Helper()
	key, err := crypto.PrivateKeyFromSeed(bytes.Repeat([]byte{seed}, 32))
	if err != nil {
		t.Fatalf("cannot create key: %s", err)
	}
	path := filepath.Join(dir, name+".priv.key")
	if err := crypto.SaveKeyFile(path, key); err != nil {
		t.Fatalf("cannot save key: %s", err)
	}
	return path
}

func keyAddress(t testing.TB, path string) string {
	t.Helper()
	key, err := crypto.LoadKeyFile(path)
	if err != nil {
		t.Fatalf("cannot load key: %s", err)
	}
	return key.PublicKey().Address().String()
}

// assertLine fails the test if the output does not contain a tab separated
// line with given name and value.
func assertLine(t testing.TB, output, name, value string) {
	t.Helper()
	want := name + "\t" + value
	for _, line := range strings.Split(output, "\n") {
		if line == want {
			return
		}
	}
	t.Fatalf("want %q line in output\n%s", want, output)
}

func TestCmdVersion(t *testing.T) {
	var output bytes.Buffer
	if err := cmdVersion(nil, &output, nil); err != nil {
		t.Fatalf("version failed: %s", err)
	}
	if !strings.HasPrefix(output.String(), "v") {
		t.Fatalf("unexpected version: %q", output.String())
	}
}

func TestAvailableCommandsAreSorted(t *testing.T) {
	cmds := availableCmds()
	if len(cmds) != len(commands) {
		t.Fatalf("want %d commands, got %d", len(commands), len(cmds))
	}
	for i := 1; i < len(cmds); i++ {
		if cmds[i-1] > cmds[i] {
			t.Fatalf("commands not sorted: %v", cmds)
		}
	}
}
