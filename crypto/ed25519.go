package crypto

import (
	"bytes"
	"os"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions we get from signatures.
const ExtensionName = "sigs"

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Verify verifies the signature was created with this message and public key.
func (p PublicKey) Verify(message, sig []byte) bool {
	if len(p) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p), message, sig)
}

// Condition encodes the public key into a condition.
func (p PublicKey) Condition() remit.Condition {
	return remit.NewCondition(ExtensionName, "ed25519", p)
}

// Address returns the address of this public key condition.
func (p PublicKey) Address() remit.Address {
	return p.Condition().Address()
}

// Equals returns true if both keys are the same.
func (p PublicKey) Equals(o PublicKey) bool {
	return bytes.Equal(p, o)
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenPrivateKey returns a random new private key.
func GenPrivateKey() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{key: priv}
}

// PrivateKeyFromSeed returns the private key for given 32 byte seed.
func PrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign returns a matching signature for this private key.
func (p *PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(p.key, message)
}

// PublicKey returns the corresponding public key.
func (p *PrivateKey) PublicKey() PublicKey {
	return PublicKey(p.key.Public().(ed25519.PublicKey))
}

// Bytes returns the raw private key.
func (p *PrivateKey) Bytes() []byte {
	return append([]byte(nil), p.key...)
}

// LoadKeyFile reads the raw private key stored at given path.
func LoadKeyFile(path string) (*PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length %d", len(raw))
	}
	return &PrivateKey{key: ed25519.PrivateKey(raw)}, nil
}

// SaveKeyFile writes the raw private key to a new file at given path. It
// fails if the file already exists.
func SaveKeyFile(path string, key *PrivateKey) error {
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrapf(errors.ErrDuplicate, "cannot create private key file: %s", err)
	}
	defer fd.Close()

	if _, err := fd.Write(key.key); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot write private key: %s", err)
	}
	return fd.Close()
}
