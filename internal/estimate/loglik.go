package estimate

import (
	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/kernels"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

// totalLogLik returns the total log-likelihood of obs under family as a function of native theta
// (§4.1's ℓ(θ) = Σ δᵢ log f(uᵢ;θ) + (1-δᵢ) log S(uᵢ;θ)).
func totalLogLik(family distributions.Family, obs models.ObservationSet) objective {
	return func(theta []float64) float64 {
		sum := 0.0
		for _, o := range obs.Obs {
			sum += kernels.PerObservationLogLik(family, theta, o.Time, o.Status)
		}
		return sum
	}
}

// perObservationObjectives returns one log-likelihood function per observation, used only to
// build the robust sandwich score outer-product sum B on the non-positive-definite fallback path
// (§4.3).
func perObservationObjectives(family distributions.Family, obs models.ObservationSet) []func([]float64) float64 {
	fns := make([]func([]float64) float64, len(obs.Obs))
	for i, o := range obs.Obs {
		t, status := o.Time, o.Status
		fns[i] = func(theta []float64) float64 {
			return kernels.PerObservationLogLik(family, theta, t, status)
		}
	}
	return fns
}
