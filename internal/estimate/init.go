package estimate

import (
	"math"

	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

// defaultInit returns the method-of-moments or spec-specified default starting point for family,
// used whenever the caller does not supply one (§4.2's per-family default init rules).
func defaultInit(family distributions.Family, obs models.ObservationSet) []float64 {
	n := float64(obs.N())
	mean := obs.TotalTime() / n
	if mean <= 0 {
		mean = 1
	}

	switch family {
	case distributions.Exponential:
		d := float64(obs.EventCount())
		if d == 0 {
			d = 1
		}
		return []float64{d / obs.TotalTime()}
	case distributions.Gamma:
		v := sampleVariance(obs, mean)
		alpha0 := 1.0
		if v > 1e-12 {
			alpha0 = mean * mean / v
		}
		if alpha0 <= 0 || math.IsNaN(alpha0) {
			alpha0 = 1
		}
		lambda0 := alpha0 / mean
		return []float64{alpha0, lambda0}
	case distributions.GeneralizedGamma:
		return []float64{1, 1, 1 / mean}
	case distributions.LogNormal:
		mu0, sigma0 := logMoments(obs)
		return []float64{mu0, sigma0}
	case distributions.Weibull:
		return []float64{1, 1 / mean}
	default:
		return nil
	}
}

func sampleVariance(obs models.ObservationSet, mean float64) float64 {
	n := float64(obs.N())
	if n < 2 {
		return 0
	}
	sum := 0.0
	for _, o := range obs.Obs {
		d := o.Time - mean
		sum += d * d
	}
	return sum / (n - 1)
}

func logMoments(obs models.ObservationSet) (mu, sigma float64) {
	n := float64(obs.N())
	sum := 0.0
	for _, o := range obs.Obs {
		sum += math.Log(o.Time)
	}
	mu = sum / n
	if n < 2 {
		return mu, 1
	}
	ss := 0.0
	for _, o := range obs.Obs {
		d := math.Log(o.Time) - mu
		ss += d * d
	}
	sigma = math.Sqrt(ss / n)
	if sigma <= 1e-8 {
		sigma = 1e-2
	}
	return mu, sigma
}
