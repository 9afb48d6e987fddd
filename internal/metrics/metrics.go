// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// StorageFailures counts swallowed persistence errors by operation.
	StorageFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "raceledger_storage_failures_total",
		Help: "Persistence gateway operations that failed and were swallowed.",
	}, []string{"op"})

	// RacesSettled counts settlement passes.
	RacesSettled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "raceledger_races_settled_total",
		Help: "Settlement passes run against race results.",
	})

	// BetsSettled counts settled bets by outcome (won/lost).
	BetsSettled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "raceledger_bets_settled_total",
		Help: "Bets resolved by settlement, by outcome.",
	}, []string{"outcome"})

	// WSClients tracks connected WebSocket clients.
	WSClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "raceledger_ws_clients",
		Help: "Connected WebSocket clients.",
	})
)

func init() {
	prometheus.MustRegister(StorageFailures, RacesSettled, BetsSettled, WSClients)
}
