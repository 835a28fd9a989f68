package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/remit/crypto"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/remittest/assert"
	"github.com/iov-one/remit/x"
)

func TestVerifySignature(t *testing.T) {
	alice := crypto.GenPrivateKey()
	bob := crypto.GenPrivateKey()
	msg := BuildSignBytes("claim", []byte("123"), []byte("456"))

	cases := map[string]struct {
		Pub     crypto.PublicKey
		Sig     []byte
		WantErr *errors.Error
	}{
		"valid signature": {
			Pub: alice.PublicKey(),
			Sig: alice.Sign(msg),
		},
		"signed by another key": {
			Pub:     alice.PublicKey(),
			Sig:     bob.Sign(msg),
			WantErr: errors.ErrUnauthorized,
		},
		"signed other bytes": {
			Pub:     alice.PublicKey(),
			Sig:     alice.Sign(BuildSignBytes("claim", []byte("12"), []byte("3456"))),
			WantErr: errors.ErrUnauthorized,
		},
		"missing key": {
			Pub:     nil,
			Sig:     alice.Sign(msg),
			WantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx, err := VerifySignature(context.Background(), tc.Pub, msg, tc.Sig)
			auth := Authenticate{}
			if tc.WantErr != nil {
				assert.IsErr(t, tc.WantErr, err)
				assert.Equal(t, 0, len(auth.GetConditions(ctx)))
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.Pub.Condition(), x.MainSigner(ctx, auth))
			if !auth.HasAddress(ctx, tc.Pub.Address()) {
				t.Fatal("signer address not found")
			}
		})
	}
}

func TestSignAndVerifyAccumulates(t *testing.T) {
	alice := crypto.GenPrivateKey()
	bob := crypto.GenPrivateKey()

	ctx, err := SignAndVerify(context.Background(), alice, "withdraw")
	assert.Nil(t, err)
	ctx, err = SignAndVerify(ctx, bob, "withdraw")
	assert.Nil(t, err)

	auth := Authenticate{}
	assert.Equal(t, alice.PublicKey().Condition(), x.MainSigner(ctx, auth))
	if !auth.HasAddress(ctx, bob.PublicKey().Address()) {
		t.Fatal("second signer not found")
	}
}

func TestBuildSignBytesIsUnambiguous(t *testing.T) {
	a := BuildSignBytes("claim", []byte("12"), []byte("3"))
	b := BuildSignBytes("claim", []byte("1"), []byte("23"))
	if string(a) == string(b) {
		t.Fatal("different argument splits produce the same bytes")
	}
}
