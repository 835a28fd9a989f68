package crypto

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/remittest/assert"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivateKey()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig := private.Sign(msg)
	sig2 := private.Sign(msg2)
	if bytes.Equal(sig, sig2) {
		t.Fatal("different messages produce the same signature")
	}

	if !public.Verify(msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !public.Verify(msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if public.Verify(msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if public.Verify(msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}
	if PublicKey(nil).Verify(msg, sig) {
		t.Fatal("verified with an empty public key")
	}
}

func TestEd25519Address(t *testing.T) {
	pub := GenPrivateKey().PublicKey()
	pub2 := GenPrivateKey().PublicKey()

	assert.Nil(t, pub.Condition().Validate())
	assert.Nil(t, pub.Address().Validate())
	if pub.Condition().Equals(pub2.Condition()) {
		t.Fatal("different keys produce the same condition")
	}
	if pub.Address().Equals(pub2.Address()) {
		t.Fatal("different keys produce the same address")
	}
}

func TestPrivateKeyFromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := PrivateKeyFromSeed(seed)
	assert.Nil(t, err)
	b, err := PrivateKeyFromSeed(seed)
	assert.Nil(t, err)
	if !a.PublicKey().Equals(b.PublicKey()) {
		t.Fatal("same seed must produce the same key")
	}

	_, err = PrivateKeyFromSeed([]byte("short"))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.priv")
	key := GenPrivateKey()

	assert.Nil(t, SaveKeyFile(path, key))
	assert.IsErr(t, errors.ErrDuplicate, SaveKeyFile(path, GenPrivateKey()))

	loaded, err := LoadKeyFile(path)
	assert.Nil(t, err)
	assert.Equal(t, key.Bytes(), loaded.Bytes())

	_, err = LoadKeyFile(filepath.Join(t.TempDir(), "missing"))
	assert.IsErr(t, errors.ErrInput, err)
}
