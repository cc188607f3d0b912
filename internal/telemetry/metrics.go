// Package telemetry holds the Prometheus collectors for oracle and beam work.
//
// Collectors register with the default registry at package init. Every
// helper is safe to call from parallel oracle workers.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK         = "ok"
	ResultNoZeroCost = "no_zero_cost"

	PruneWidth   = "width"
	PruneDensity = "density"
)

var (
	// oracleDerivations counts oracle runs by outcome.
	oracleDerivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transitionx_oracle_derivations_total",
		Help: "Oracle sequence derivations by result",
	}, []string{"result"})

	// oracleSteps tracks how many moves each successful derivation produced.
	oracleSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "transitionx_oracle_steps",
		Help:    "Moves per successful oracle derivation",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1 to 512
	})

	beamExpansions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transitionx_beam_expansions_total",
		Help: "Candidate expansions generated by beam steps",
	})

	beamPruned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transitionx_beam_pruned_total",
		Help: "Beam candidates discarded by reason",
	}, []string{"reason"}) // "width" or "density"
)

// ObserveOracle records one oracle derivation.
func ObserveOracle(result string, steps int) {
	oracleDerivations.WithLabelValues(result).Inc()
	if result == ResultOK {
		oracleSteps.Observe(float64(steps))
	}
}

// BeamExpanded records n generated expansions.
func BeamExpanded(n int) {
	if n > 0 {
		beamExpansions.Add(float64(n))
	}
}

// BeamPruned records n candidates dropped for reason.
func BeamPruned(reason string, n int) {
	if n > 0 {
		beamPruned.WithLabelValues(reason).Add(float64(n))
	}
}
