package estimate

import (
	"time"

	"github.com/kestrelstack/survfit-engine/internal/apperr"
	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/functionals"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

const opFit = "estimate.Fit"

// Fit validates obs and runs the family's MLE routine, then derives the observed-information
// covariance and every requested functional, returning an immutable models.FitResult (§3, §4.1-
// §4.4). It takes no context.Context: the numerical core is pure and deterministic given its
// inputs, with randomness and I/O confined to the ambient layers that call it (§5).
func Fit(obs models.ObservationSet, family distributions.Family, theta0 models.Theta, sig float64, taus []float64, opt Options, runID string) (models.FitResult, error) {
	if _, err := distributions.Lookup(family); err != nil {
		return models.FitResult{}, apperr.Wrap(opFit, apperr.UnknownDistribution, "unknown distribution family", err)
	}
	if theta0 != nil {
		if err := distributions.CheckArity(family, len(theta0)); err != nil {
			return models.FitResult{}, apperr.Wrap(opFit, apperr.BadParameterArity, "initial parameter vector has the wrong arity", err)
		}
	}
	if sig <= 0 || sig >= 1 {
		return models.FitResult{}, apperr.New(opFit, apperr.InvalidSig, "significance level must lie in (0,1)")
	}
	if obs.N() == 0 {
		return models.FitResult{}, apperr.New(opFit, apperr.NoEvents, "observation set is empty")
	}
	for _, o := range obs.Obs {
		if o.Time <= 0 {
			return models.FitResult{}, apperr.New(opFit, apperr.NonPositiveTime, "observed time must be strictly positive")
		}
		if o.Status != 0 && o.Status != 1 {
			return models.FitResult{}, apperr.New(opFit, apperr.BadStatusCode, "status must be 0 (censored) or 1 (event)")
		}
	}
	if obs.EventCount() == 0 {
		return models.FitResult{}, apperr.New(opFit, apperr.NoEvents, "observation set has no observed events")
	}
	for _, tau := range taus {
		if tau <= 0 {
			return models.FitResult{}, apperr.New(opFit, apperr.InvalidTau, "RMST truncation time must be positive")
		}
		if tau > obs.MaxTime() {
			return models.FitResult{}, apperr.New(opFit, apperr.InvalidTau, "RMST truncation time exceeds the largest observed time")
		}
	}

	init := []float64(theta0)
	if init == nil {
		init = defaultInit(family, obs)
	}

	var res newtonResult
	switch family {
	case distributions.Exponential:
		res = fitExponential(obs)
	case distributions.Gamma:
		res = fitGamma(obs, init, opt)
	case distributions.GeneralizedGamma:
		res = fitGeneralizedGamma(obs, init, opt)
	case distributions.LogNormal:
		res = fitLogNormal(obs, init, opt)
	case distributions.Weibull:
		res = fitWeibull(obs, init, opt)
	}

	info := observedInformation(totalLogLik(family, obs), res.ThetaHat, perObservationObjectives(family, obs))
	info.Robust = info.Robust || !res.Converged

	sigma := toModelsMatrix(info.Sigma)
	fset, err := functionals.Compute(family, models.Theta(res.ThetaHat), sigma, sig, taus)
	if err != nil {
		return models.FitResult{}, apperr.Wrap(opFit, apperr.QuadratureFailure, "functional computation failed", err)
	}

	return models.FitResult{
		RunID:         runID,
		Family:        family,
		ThetaHat:      models.Theta(res.ThetaHat),
		Sigma:         sigma,
		SigmaRobust:   info.Robust,
		LogLikelihood: res.LogLik,
		Converged:     res.Converged,
		Iterations:    res.Iterations,
		Mean:          fset.Mean,
		Median:        fset.Median,
		Variance:      fset.Variance,
		RMST:          fset.RMST,
		N:             obs.N(),
		EventCount:    obs.EventCount(),
		Sig:           sig,
		FittedAt:      time.Now(),
	}, nil
}

func toModelsMatrix(m matrix) models.Matrix {
	n := m.n()
	out := models.NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, m[i][j])
		}
	}
	return out
}
