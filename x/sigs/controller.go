package sigs

import (
	"context"
	"encoding/binary"

	"github.com/iov-one/remit/crypto"
	"github.com/iov-one/remit/errors"
)

// signBytesPrefix separates signatures of ledger operations from any other
// use of the same key.
const signBytesPrefix = "remit/op"

// BuildSignBytes returns the canonical bytes that a caller signs to request
// given operation with given arguments. Every argument is length prefixed so
// that different argument splits never produce the same bytes.
func BuildSignBytes(operation string, args ...[]byte) []byte {
	out := []byte(signBytesPrefix)
	out = appendChunk(out, []byte(operation))
	for _, a := range args {
		out = appendChunk(out, a)
	}
	return out
}

func appendChunk(out, chunk []byte) []byte {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], uint64(len(chunk)))
	out = append(out, buf[:n]...)
	return append(out, chunk...)
}

// VerifySignature checks that the signature was created by the owner of the
// public key for given bytes. On success the signer condition is added to
// the returned context.
func VerifySignature(ctx context.Context, pub crypto.PublicKey, signBytes, sig []byte) (context.Context, error) {
	if len(pub) == 0 {
		return ctx, errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if !pub.Verify(signBytes, sig) {
		return ctx, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	signers := Authenticate{}.GetConditions(ctx)
	signers = append(append(signers[:0:0], signers...), pub.Condition())
	return withSigners(ctx, signers), nil
}

// SignAndVerify is a helper for callers that hold the private key. It signs
// the operation and verifies it as any other caller would be verified.
func SignAndVerify(ctx context.Context, key *crypto.PrivateKey, operation string, args ...[]byte) (context.Context, error) {
	msg := BuildSignBytes(operation, args...)
	return VerifySignature(ctx, key.PublicKey(), msg, key.Sign(msg))
}
