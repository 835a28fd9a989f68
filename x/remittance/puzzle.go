package remittance

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/iov-one/remit/errors"
	"golang.org/x/crypto/sha3"
)

// PuzzleSize is the length of every puzzle.
const PuzzleSize = 32

const puzzleDomain = "remit/puzzle"

// Puzzle identifies a note. It is a digest of the two secrets that unlock
// the note and reveals nothing about them.
type Puzzle []byte

// DeriveFunc computes the puzzle for given pair of secrets.
type DeriveFunc func(a, b []byte) Puzzle

var _ DeriveFunc = DerivePuzzle

// DerivePuzzle computes the puzzle of a secret pair. It is a Keccak-256
// digest over both secrets, each prefixed with its length, so that moving
// bytes from one secret to the other always changes the result. The order of
// the secrets matters.
func DerivePuzzle(a, b []byte) Puzzle {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(puzzleDomain))
	writeChunk(h, a)
	writeChunk(h, b)
	return h.Sum(nil)
}

type writer interface {
	Write([]byte) (int, error)
}

func writeChunk(w writer, chunk []byte) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], uint64(len(chunk)))
	w.Write(buf[:n])
	w.Write(chunk)
}

// Validate returns an error if the puzzle is malformed.
func (p Puzzle) Validate() error {
	if len(p) != PuzzleSize {
		return errors.Wrapf(errors.ErrInput, "puzzle must be %d bytes, got %d", PuzzleSize, len(p))
	}
	return nil
}

// String returns the hex representation of the puzzle.
func (p Puzzle) String() string {
	return hex.EncodeToString(p)
}

// ParsePuzzle decodes a hex encoded puzzle. An optional 0x prefix is
// accepted.
func ParsePuzzle(s string) (Puzzle, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "puzzle is not hex encoded")
	}
	p := Puzzle(raw)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
