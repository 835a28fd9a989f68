package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"

	"github.com/iov-one/remit"
	"github.com/iov-one/remit/config"
	"github.com/iov-one/remit/metrics"
	"github.com/iov-one/remit/store/bolt"
	"github.com/iov-one/remit/x/cash"
	"github.com/iov-one/remit/x/remittance"
	"github.com/iov-one/remit/x/sigs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func cmdServeMetrics(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Serve prometheus metrics describing the ledger state. The state is audited on
every scrape.
`)
		fl.PrintDefaults()
	}
	var (
		configFl = fl.String("config", defaultConfigPath(),
			"Path to the configuration file. You can use REMIT_CONFIG environment variable to set it.")
		addrFl = fl.String("addr", "", "Address to listen on. Overrides the configured metrics address.")
	)
	fl.Parse(args)

	cfg, err := config.LoadFile(*configFl)
	if err != nil {
		return err
	}
	addr := *addrFl
	if addr == "" {
		addr = cfg.Metrics.Address
	}
	if addr == "" {
		return fmt.Errorf("metrics address is not configured")
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	reg, err := metricsRegistry(cfg)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	logger.Info("serving metrics", "addr", addr, "state", cfg.StatePath())
	return http.ListenAndServe(addr, mux)
}

// metricsRegistry returns a registry reporting the process and the audit of
// the configured ledger state.
func metricsRegistry(cfg *config.Config) (*prometheus.Registry, error) {
	ledger := remittance.NewLedger(sigs.Authenticate{}, cash.NewController(cash.NewBucket()), ledgerOptions(cfg)...)
	open := func() (remit.ReadOnlyKVStore, func(), error) {
		db, err := bolt.Open(cfg.StatePath(), bolt.WithReadOnly())
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	}

	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewLedgerCollector(open, ledger),
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("cannot register collector: %s", err)
		}
	}
	return reg, nil
}
