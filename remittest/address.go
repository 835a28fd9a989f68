package remittest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/remit"
)

// NewCondition returns a random condition. Each call produces a different
// signer.
func NewCondition() remit.Condition {
	data := make([]byte, 8)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return remit.NewCondition("test", "rnd", data)
}

// SequenceCondition returns a condition that is always the same for given
// sequence number.
func SequenceCondition(seq byte) remit.Condition {
	return remit.NewCondition("test", "seq", []byte{seq})
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation. This function is a test helper that is using
// remit.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) remit.Address {
	t.Helper()

	addr, err := remit.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
