package functionals

import (
	"math"

	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/kernels"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

// rmstValue returns RMST(tau) = integral_0^tau S(t) dt. Exponential has a closed form; every
// other family falls back to composite Simpson's rule over the bounded, smooth survival curve,
// which needs no bracket search and converges quickly at modest node counts (§4.4's documented
// quadrature fallback).
func rmstValue(family distributions.Family, theta []float64, tau float64) (float64, *models.QuadratureInfo) {
	if family == distributions.Exponential {
		lambda := theta[0]
		return (1 - math.Exp(-lambda*tau)) / lambda, nil
	}

	const nodes = 256 // even, for composite Simpson's rule
	h := tau / float64(nodes)
	sum := kernels.Survival(family, theta, 1e-12) + kernels.Survival(family, theta, tau)
	for i := 1; i < nodes; i++ {
		x := float64(i) * h
		weight := 4.0
		if i%2 == 0 {
			weight = 2.0
		}
		sum += weight * kernels.Survival(family, theta, x)
	}
	integral := sum * h / 3

	failed := math.IsNaN(integral) || math.IsInf(integral, 0)
	return integral, &models.QuadratureInfo{Method: "composite-simpson", Tolerance: h * h * h * h, Failed: failed}
}
