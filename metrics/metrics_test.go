package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/remittest/assert"
	"github.com/iov-one/remit/store"
	"github.com/iov-one/remit/x/remittance"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func resultHandler(data interface{}, err error) remit.Handler {
	return remit.HandlerFunc(func(context.Context, remit.KVStore) (*remit.DeliverResult, error) {
		if err != nil {
			return nil, err
		}
		return &remit.DeliverResult{Data: data}, nil
	})
}

func TestMetricsDecorator(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	assert.Nil(t, err)

	ctx := remit.WithOperation(context.Background(), "claim")
	db := store.MemStore()

	_, err = m.Deliver(ctx, db, resultHandler(&remittance.NoteClaimed{Amount: 10}, nil))
	assert.Nil(t, err)
	_, err = m.Deliver(ctx, db, resultHandler(nil, errors.Wrap(remittance.ErrInvalidClaim, "wrong")))
	assert.IsErr(t, remittance.ErrInvalidClaim, err)

	create := remit.WithOperation(context.Background(), "create")
	_, err = m.Deliver(create, db, resultHandler(&remittance.NoteCreated{Amount: 7}, nil))
	assert.Nil(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("claim", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("claim", "302")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("create", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notes.WithLabelValues("note_claimed")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.value.WithLabelValues("note_claimed")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.value.WithLabelValues("note_created")))

	// Registering twice with the same registry fails.
	_, err = New(reg)
	assert.IsErr(t, errors.ErrDuplicate, err)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	assert.Nil(t, err)
	ctx := remit.WithOperation(context.Background(), "withdraw")
	_, err = m.Deliver(ctx, store.MemStore(), resultHandler(&remittance.PaymentWithdrawn{Amount: 3}, nil))
	assert.Nil(t, err)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	assert.Nil(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	assert.Nil(t, err)
	if !strings.Contains(string(body), `remit_value_total{event="payment_withdrawn"} 3`) {
		t.Fatalf("withdrawn value not exposed:\n%s", body)
	}
}
