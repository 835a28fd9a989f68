package metrics

import (
	"github.com/iov-one/remit"
	"github.com/iov-one/remit/x/remittance"
	"github.com/prometheus/client_golang/prometheus"
)

// OpenFunc returns a read only view of the ledger state and a function
// releasing it.
type OpenFunc func() (remit.ReadOnlyKVStore, func(), error)

// LedgerCollector reports the ledger audit on every scrape.
type LedgerCollector struct {
	open   OpenFunc
	ledger *remittance.Ledger

	custody      *prometheus.Desc
	openNotes    *prometheus.Desc
	claimedNotes *prometheus.Desc
	openValue    *prometheus.Desc
	pendingValue *prometheus.Desc
	healthy      *prometheus.Desc
}

var _ prometheus.Collector = (*LedgerCollector)(nil)

// NewLedgerCollector returns a collector auditing the state returned by
// open.
func NewLedgerCollector(open OpenFunc, ledger *remittance.Ledger) *LedgerCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "ledger", name), help, nil, nil)
	}
	return &LedgerCollector{
		open:         open,
		ledger:       ledger,
		custody:      desc("custody_balance", "Value held by the ledger custody"),
		openNotes:    desc("open_notes", "Number of notes that can be claimed"),
		claimedNotes: desc("claimed_notes", "Number of claimed notes"),
		openValue:    desc("open_value", "Value locked in open notes"),
		pendingValue: desc("pending_value", "Value credited to claimants and not withdrawn"),
		healthy:      desc("audit_ok", "1 if the custody covers all obligations, 0 otherwise"),
	}
}

// Describe implements prometheus.Collector.
func (c *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.custody
	ch <- c.openNotes
	ch <- c.claimedNotes
	ch <- c.openValue
	ch <- c.pendingValue
	ch <- c.healthy
}

// Collect implements prometheus.Collector.
func (c *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	db, release, err := c.open()
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.healthy, err)
		return
	}
	defer release()

	report, err := c.ledger.Audit(db)
	if report == nil {
		ch <- prometheus.NewInvalidMetric(c.healthy, err)
		return
	}
	healthy := 1.0
	if err != nil {
		healthy = 0
	}
	ch <- prometheus.MustNewConstMetric(c.custody, prometheus.GaugeValue, float64(report.Custody))
	ch <- prometheus.MustNewConstMetric(c.openNotes, prometheus.GaugeValue, float64(report.OpenNotes))
	ch <- prometheus.MustNewConstMetric(c.claimedNotes, prometheus.GaugeValue, float64(report.ClaimedNotes))
	ch <- prometheus.MustNewConstMetric(c.openValue, prometheus.GaugeValue, float64(report.OpenValue))
	ch <- prometheus.MustNewConstMetric(c.pendingValue, prometheus.GaugeValue, float64(report.PendingValue))
	ch <- prometheus.MustNewConstMetric(c.healthy, prometheus.GaugeValue, healthy)
}
