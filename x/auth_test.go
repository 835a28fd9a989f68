package x

import (
	"context"
	"testing"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/remittest"
	"github.com/iov-one/remit/remittest/assert"
)

func TestAuth(t *testing.T) {
	a := remittest.NewCondition()
	b := remittest.NewCondition()
	c := remittest.NewCondition()

	ctx1 := &remittest.CtxAuth{Key: "foo"}
	ctx2 := &remittest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          context.Context
		auth         Authenticator
		mainSigner   remit.Condition
		wantInCtx    remit.Condition
		wantNotInCtx remit.Condition
		wantAll      []remit.Condition
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &remittest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &remittest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []remit.Condition{a},
		},
		"signer b": {
			ctx: context.Background(),
			auth: ChainAuth(
				&remittest.Auth{Signer: b},
				&remittest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []remit.Condition{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []remit.Condition{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()) {
				t.Fatal("condition address that was expected in context not found")
			}
			if tc.wantNotInCtx != nil && tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()) {
				t.Fatal("condition address that was expected not to be in context found")
			}

			all := tc.auth.GetConditions(tc.ctx)
			assert.Equal(t, tc.wantAll, all)
			if !HasAllConditions(tc.ctx, tc.auth, all) {
				t.Fatal("not all conditions found in context")
			}
			assert.Equal(t, len(all), len(GetAddresses(tc.ctx, tc.auth)))
		})
	}
}
