// Package metrics exposes prometheus instrumentation of the remittance
// ledger.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/errors"
	"github.com/iov-one/remit/x/remittance"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "remit"

// Metrics counts executed operations and the value flowing through the
// ledger.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	notes      *prometheus.CounterVec
	value      *prometheus.CounterVec
}

var _ remit.Decorator = (*Metrics)(nil)

// New creates all metrics and registers them with given registerer.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Number of executed ledger operations",
			},
			[]string{"operation", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Time spent executing ledger operations",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"operation"},
		),
		notes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notes_total",
				Help:      "Number of notes that changed state",
			},
			[]string{"event"},
		),
		value: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "value_total",
				Help:      "Value moved by the ledger",
			},
			[]string{"event"},
		),
	}
	for _, c := range []prometheus.Collector{m.operations, m.duration, m.notes, m.value} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(errors.ErrDuplicate, "register metric: %s", err)
		}
	}
	return m, nil
}

// Deliver records the outcome of the wrapped operation. Events returned as
// the operation result are counted as well.
func (m *Metrics) Deliver(ctx context.Context, db remit.KVStore, next remit.Handler) (*remit.DeliverResult, error) {
	op := remit.GetOperation(ctx)
	if op == "" {
		op = "unknown"
	}
	start := time.Now()
	res, err := next.Deliver(ctx, db)
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.operations.WithLabelValues(op, codeLabel(err)).Inc()
	if err == nil && res != nil {
		m.observe(res.Data)
	}
	return res, err
}

func (m *Metrics) observe(data interface{}) {
	switch ev := data.(type) {
	case *remittance.NoteCreated:
		m.notes.WithLabelValues(ev.EventName()).Inc()
		m.value.WithLabelValues(ev.EventName()).Add(float64(ev.Amount))
	case *remittance.NoteClaimed:
		m.notes.WithLabelValues(ev.EventName()).Inc()
		m.value.WithLabelValues(ev.EventName()).Add(float64(ev.Amount))
	case *remittance.PaymentWithdrawn:
		m.value.WithLabelValues(ev.EventName()).Add(float64(ev.Amount))
	}
}

func codeLabel(err error) string {
	return strconv.FormatUint(uint64(errors.Code(err)), 10)
}

// Handler returns an HTTP handler exposing all metrics of given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
