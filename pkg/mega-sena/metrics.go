package megasena

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Registry holds the collectors of the generation core.
	Registry = prometheus.NewRegistry()

	ticketsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "megasena",
			Subsystem: "sampler",
			Name:      "tickets_generated_total",
			Help:      "Total number of tickets produced, by policy label.",
		},
		[]string{"label"},
	)

	samplerFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "megasena",
			Subsystem: "sampler",
			Name:      "uniform_fallbacks_total",
			Help:      "Weighted samples that exhausted their attempts and fell back to uniform sampling.",
		},
	)

	closureTickets = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "megasena",
			Subsystem: "closure",
			Name:      "tickets",
			Help:      "Number of tickets in built closures.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14), // 1 to 8192
		},
		[]string{"guarantee"},
	)

	simulationPaths = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "megasena",
			Subsystem: "simulation",
			Name:      "paths_total",
			Help:      "Total number of simulated ticket/draw pairs.",
		},
	)
)

func init() {
	Registry.MustRegister(
		ticketsGenerated,
		samplerFallbacks,
		closureTickets,
		simulationPaths,
	)
}
