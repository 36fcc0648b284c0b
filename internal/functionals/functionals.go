// Package functionals computes the mean, median, variance, and RMST of a fitted distribution
// together with their delta-method standard errors and Wald confidence intervals, per §4.4 of the
// spec. Closed forms are used where the family admits one; otherwise numeric root-finding
// (median) or quadrature (RMST) steps in, always reporting which path was taken via
// models.QuadratureInfo. Gradients are obtained by central finite differences of the functional
// value as a function of theta — the same technique internal/estimate uses for the likelihood,
// kept in this package's own small helper to avoid a dependency on internal/estimate.
package functionals

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/kernels"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

// Set groups every functional computed for one fit.
type Set struct {
	Mean     models.FunctionalEstimate
	Median   models.FunctionalEstimate
	Variance models.FunctionalEstimate
	RMST     map[float64]models.FunctionalEstimate
}

// Compute derives Set from a converged fit's theta_hat and covariance Sigma, at confidence level
// 1-sig, for the requested RMST truncation times.
func Compute(family distributions.Family, thetaHat models.Theta, sigma models.Matrix, sig float64, taus []float64) (Set, error) {
	z := criticalValue(sig)

	mean := computeScalar(family, "mean", thetaHat, sigma, z, func(th []float64) (float64, *models.QuadratureInfo) {
		return meanValue(family, th), nil
	})
	median := computeScalar(family, "median", thetaHat, sigma, z, func(th []float64) (float64, *models.QuadratureInfo) {
		return medianValue(family, th)
	})
	variance := computeScalar(family, "variance", thetaHat, sigma, z, func(th []float64) (float64, *models.QuadratureInfo) {
		return varianceValue(family, th), nil
	})

	rmst := make(map[float64]models.FunctionalEstimate, len(taus))
	for _, tau := range taus {
		t := tau
		rmst[tau] = computeScalar(family, "rmst", thetaHat, sigma, z, func(th []float64) (float64, *models.QuadratureInfo) {
			return rmstValue(family, th, t)
		})
	}

	return Set{Mean: mean, Median: median, Variance: variance, RMST: rmst}, nil
}

// valueFunc evaluates a functional at a parameter vector, optionally reporting the quadrature
// path it took.
type valueFunc func(theta []float64) (float64, *models.QuadratureInfo)

// computeScalar evaluates a functional, its finite-difference gradient, its delta-method SE, and
// a log-scale Wald CI (every functional this package computes is strictly positive).
func computeScalar(family distributions.Family, name string, thetaHat models.Theta, sigma models.Matrix, z float64, f valueFunc) models.FunctionalEstimate {
	est, quad := f(thetaHat)
	grad := gradientFD(func(th []float64) float64 {
		v, _ := f(th)
		return v
	}, thetaHat)

	variance := quadraticForm(grad, sigma)
	se := 0.0
	if variance > 0 {
		se = math.Sqrt(variance)
	}

	lower, upper := est, est
	if est > 0 && se > 0 {
		logSE := se / est
		lower = est * math.Exp(-z*logSE)
		upper = est * math.Exp(z*logSE)
	}

	return models.FunctionalEstimate{
		Name:       name,
		Estimate:   est,
		SE:         se,
		CILower:    lower,
		CIUpper:    upper,
		Gradient:   grad,
		Quadrature: quad,
	}
}

// quadraticForm returns grad^T Sigma grad.
func quadraticForm(grad []float64, sigma models.Matrix) float64 {
	n := len(grad)
	sum := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum += grad[i] * sigma.At(i, j) * grad[j]
		}
	}
	return sum
}

// gradientFD is a small central finite-difference gradient, duplicated from internal/estimate's
// helper of the same shape to avoid an import cycle (internal/estimate imports this package).
func gradientFD(f func([]float64) float64, x []float64) []float64 {
	n := len(x)
	g := make([]float64, n)
	for i := 0; i < n; i++ {
		h := 1e-5 * (1 + math.Abs(x[i]))
		xp := append([]float64{}, x...)
		xm := append([]float64{}, x...)
		xp[i] += h
		xm[i] -= h
		g[i] = (f(xp) - f(xm)) / (2 * h)
	}
	return g
}

// criticalValue returns the two-sided standard normal critical value for significance level sig.
func criticalValue(sig float64) float64 {
	return distuv.UnitNormal.Quantile(1 - sig/2)
}

// bisectSurvivalQuantile finds t such that S(t;theta) = target via bisection on the survival
// function, used by families with no closed-form quantile (Gamma, generalized gamma).
func bisectSurvivalQuantile(family distributions.Family, theta []float64, target float64) (float64, *models.QuadratureInfo) {
	lo, hi := 1e-9, 1.0
	for kernels.Survival(family, theta, hi) > target {
		hi *= 2
		if hi > 1e18 {
			return hi, &models.QuadratureInfo{Method: "bisection-quantile", Tolerance: 1e-10, Failed: true}
		}
	}
	for i := 0; i < 200; i++ {
		mid := 0.5 * (lo + hi)
		if kernels.Survival(family, theta, mid) > target {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-10 {
			break
		}
	}
	return 0.5 * (lo + hi), &models.QuadratureInfo{Method: "bisection-quantile", Tolerance: 1e-10, Failed: false}
}
