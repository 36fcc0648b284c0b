// Package simulate draws synthetic right-censored samples from a parametric family, the
// "collaborator specified only by interface" the spec frames as out of the numerical core (§6,
// §10.3). It is never imported by internal/estimate or internal/functionals — only by the CLI's
// simulate subcommand, which wires it up for users who want to exercise the estimators against
// known ground truth. Grounded in `_examples/other_examples/kshedden-statmodel__gamma.go`, the pack's only file
// pairing `golang.org/x/exp/rand` with `gonum.org/v1/gonum/stat/distuv` samplers.
package simulate

import (
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kestrelstack/survfit-engine/internal/apperr"
	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

const opSample = "simulate.Sample"

// Options controls one simulated draw.
type Options struct {
	N    int     // sample size
	P    float64 // target right-censoring proportion, in [0,1)
	Seed uint64  // RNG seed, for reproducibility
}

// Sample draws N independent event times from family at theta, then applies an independent
// exponential right-censoring mechanism calibrated so that E[1-delta] is approximately P (§6).
// The calibration rate is found by matching the empirical Laplace transform of the drawn event
// times against the identity P(T>C) = 1 - E[exp(-lambda_c*T)] for C ~ Exponential(lambda_c): this
// holds for every family in the registry, so one calibration routine serves all five rather than
// a per-family closed form for the subset (exponential, Weibull) that happens to have one.
func Sample(family distributions.Family, theta []float64, opt Options) (models.ObservationSet, error) {
	if err := distributions.CheckArity(family, len(theta)); err != nil {
		return models.ObservationSet{}, apperr.Wrap(opSample, apperr.BadParameterArity, "parameter vector has the wrong arity", err)
	}
	if opt.N <= 0 {
		return models.ObservationSet{}, apperr.New(opSample, apperr.BadParameterArity, "sample size must be positive")
	}
	if opt.P < 0 || opt.P >= 1 {
		return models.ObservationSet{}, apperr.New(opSample, apperr.InvalidSig, "censoring proportion must lie in [0,1)")
	}

	src := rand.New(rand.NewSource(opt.Seed))
	times := make([]float64, opt.N)
	for i := range times {
		times[i] = drawEventTime(family, theta, src)
	}

	lambdaC := 0.0
	if opt.P > 0 {
		lambdaC = calibrateCensoringRate(times, opt.P)
	}

	obs := models.ObservationSet{Obs: make([]models.Observation, opt.N)}
	censor := distuv.Exponential{Rate: lambdaC, Src: src}
	for i, t := range times {
		if lambdaC <= 0 {
			obs.Obs[i] = models.Observation{Time: t, Status: 1}
			continue
		}
		c := censor.Rand()
		if t <= c {
			obs.Obs[i] = models.Observation{Time: t, Status: 1}
		} else {
			obs.Obs[i] = models.Observation{Time: c, Status: 0}
		}
	}
	return obs, nil
}

// drawEventTime draws one event time from the requested family. Generalized gamma uses the
// identity T = G^(1/beta) for G ~ Gamma(shape=alpha, rate=lambda^beta), avoiding the need for an
// inverse incomplete-gamma sampler.
func drawEventTime(family distributions.Family, theta []float64, src rand.Source) float64 {
	switch family {
	case distributions.Exponential:
		return distuv.Exponential{Rate: theta[0], Src: src}.Rand()
	case distributions.Gamma:
		return distuv.Gamma{Alpha: theta[0], Beta: theta[1], Src: src}.Rand()
	case distributions.GeneralizedGamma:
		alpha, beta, lambda := theta[0], theta[1], theta[2]
		g := distuv.Gamma{Alpha: alpha, Beta: math.Pow(lambda, beta), Src: src}.Rand()
		return math.Pow(g, 1/beta)
	case distributions.LogNormal:
		return distuv.LogNormal{Mu: theta[0], Sigma: theta[1], Src: src}.Rand()
	case distributions.Weibull:
		alpha, lambda := theta[0], theta[1]
		return distuv.Weibull{K: alpha, Lambda: 1 / lambda, Src: src}.Rand()
	default:
		return math.NaN()
	}
}

// calibrateCensoringRate finds lambda_c such that the empirical Laplace transform of samples at
// lambda_c matches 1-p, via bisection (the transform is strictly decreasing in lambda_c).
func calibrateCensoringRate(samples []float64, p float64) float64 {
	target := 1 - p
	laplace := func(s float64) float64 {
		sum := 0.0
		for _, t := range samples {
			sum += math.Exp(-s * t)
		}
		return sum / float64(len(samples))
	}

	lo, hi := 0.0, 1.0
	for laplace(hi) > target {
		hi *= 2
		if hi > 1e12 {
			break
		}
	}
	for i := 0; i < 100; i++ {
		mid := 0.5 * (lo + hi)
		if laplace(mid) > target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}
