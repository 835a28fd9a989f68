package app

import (
	"strings"
	"testing"

	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/x/remittance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorMode(t *testing.T) {
	for _, m := range []ErrorMode{Generic, Descriptive, Debug} {
		got, err := ParseErrorMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseErrorMode("loud")
	assert.True(t, errors.ErrInput.Is(err))
}

func TestRender(t *testing.T) {
	internal := errors.Wrap(stdErr("disk on fire"), "write")

	cases := map[string]struct {
		mode    ErrorMode
		op      string
		err     error
		wantMsg string
		wantSub string
	}{
		"generic hides the message": {
			mode:    Generic,
			op:      opClaim,
			err:     errors.Wrap(remittance.ErrInvalidClaim, "Remittance Exchanged"),
			wantMsg: "operation failed (code 302)",
		},
		"descriptive unauthorized create": {
			mode:    Descriptive,
			op:      opCreate,
			err:     errors.Wrap(errors.ErrUnauthorized, "only owner can create remittance note"),
			wantMsg: "only owner can create remittance note",
		},
		"descriptive duplicate": {
			mode:    Descriptive,
			op:      opCreate,
			err:     errors.Wrap(remittance.ErrDuplicateNote, "Remittance Exist"),
			wantMsg: "Remittance Exist",
		},
		"descriptive invalid claim": {
			mode:    Descriptive,
			op:      opClaim,
			err:     errors.Wrap(remittance.ErrInvalidClaim, "wrong secrets"),
			wantMsg: "Remittance Exchanged",
		},
		"descriptive other error keeps the message": {
			mode:    Descriptive,
			op:      opWithdraw,
			err:     errors.Wrap(errors.ErrEmpty, "nothing to withdraw"),
			wantMsg: "nothing to withdraw: value is empty",
		},
		"descriptive redacts internal errors": {
			mode:    Descriptive,
			op:      opClaim,
			err:     internal,
			wantMsg: "internal error",
		},
		"debug reveals internal errors": {
			mode:    Debug,
			op:      opClaim,
			err:     internal,
			wantSub: "disk on fire",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := render(tc.mode, tc.op, tc.err)
			require.Error(t, err)
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, err.Error())
			}
			if tc.wantSub != "" {
				assert.True(t, strings.Contains(err.Error(), tc.wantSub), err.Error())
			}
			// The original error is always reachable.
			assert.Equal(t, errors.Code(tc.err), errors.Code(err))
		})
	}

	assert.Nil(t, render(Debug, opClaim, nil))
}

type stdErr string

func (e stdErr) Error() string { return string(e) }
