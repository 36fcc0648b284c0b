// Package metrics relabels the teacher's Prometheus counters (internal/metrics/metrics.go) from
// investigation outcomes to fit/contrast outcomes, keeping the same namespaced CounterVec +
// Histogram + Register shape.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	fitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "survfit",
			Name:      "fits_total",
			Help:      "Total number of estimator runs, partitioned by family and outcome.",
		},
		[]string{"family", "outcome"},
	)

	fitDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "survfit",
			Name:      "fit_seconds",
			Help:      "Estimator run latency in seconds, partitioned by family.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"family"},
	)

	nonConvergedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "survfit",
			Name:      "nonconverged_total",
			Help:      "Total number of estimator runs that hit the iteration cap without converging.",
		},
		[]string{"family"},
	)

	robustFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "survfit",
			Name:      "robust_fallback_total",
			Help:      "Total number of fits whose covariance required the robust sandwich fallback.",
		},
		[]string{"family"},
	)

	contrastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "survfit",
			Name:      "contrasts_total",
			Help:      "Total number of contrast computations, partitioned by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register attaches survfit-engine collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		fitsTotal,
		fitDurationSeconds,
		nonConvergedTotal,
		robustFallbackTotal,
		contrastsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveFit records one estimator run.
func ObserveFit(family string, duration time.Duration, converged, robust bool, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	fitsTotal.WithLabelValues(family, outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	fitDurationSeconds.WithLabelValues(family).Observe(duration.Seconds())
	if err == nil && !converged {
		nonConvergedTotal.WithLabelValues(family).Inc()
	}
	if robust {
		robustFallbackTotal.WithLabelValues(family).Inc()
	}
}

// ObserveContrast records one contrast computation.
func ObserveContrast(err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	contrastsTotal.WithLabelValues(outcome).Inc()
}
