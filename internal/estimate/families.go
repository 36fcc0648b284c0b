package estimate

import (
	"math"

	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

// fitExponential closes the likelihood in one step: lambda_hat = D/T (§4.2).
func fitExponential(obs models.ObservationSet) newtonResult {
	lambda := float64(obs.EventCount()) / obs.TotalTime()
	theta := []float64{lambda}
	return newtonResult{ThetaHat: theta, LogLik: totalLogLik(distributions.Exponential, obs)(theta), Converged: true, Iterations: 0}
}

// fitLogNormal closes the likelihood directly when every observation is an event, and otherwise
// runs Newton-Raphson over (mu, log-sigma) starting from the uncensored closed form (§4.2).
func fitLogNormal(obs models.ObservationSet, theta0 []float64, opt Options) newtonResult {
	ll := totalLogLik(distributions.LogNormal, obs)
	if obs.EventCount() == obs.N() {
		mu, sigma := logMoments(obs)
		theta := []float64{mu, sigma}
		return newtonResult{ThetaHat: theta, LogLik: ll(theta), Converged: true, Iterations: 0}
	}
	return runNewton(ll, theta0, []paramDomain{domainReal, domainPositive}, opt)
}

// fitWeibull profiles out the rate given the shape via the closed-form conditional MLE
// lambda(alpha) = (D / sum u_i^alpha)^(1/alpha), running a one-dimensional Newton-Raphson over
// log(alpha) (§4.2's profile-likelihood design).
func fitWeibull(obs models.ObservationSet, theta0 []float64, opt Options) newtonResult {
	ll := totalLogLik(distributions.Weibull, obs)
	d := float64(obs.EventCount())

	profileLambda := func(alpha float64) float64 {
		sum := 0.0
		for _, o := range obs.Obs {
			sum += math.Pow(o.Time, alpha)
		}
		return math.Pow(d/sum, 1/alpha)
	}
	profileObj := func(theta []float64) float64 {
		alpha := theta[0]
		lambda := profileLambda(alpha)
		return ll([]float64{alpha, lambda})
	}

	sub := runNewton(profileObj, []float64{theta0[0]}, []paramDomain{domainPositive}, opt)
	alphaHat := sub.ThetaHat[0]
	lambdaHat := profileLambda(alphaHat)
	theta := []float64{alphaHat, lambdaHat}
	return newtonResult{ThetaHat: theta, LogLik: ll(theta), Converged: sub.Converged, Iterations: sub.Iterations}
}

// fitGamma runs a joint two-dimensional Newton-Raphson over (log-alpha, log-lambda): the
// closed-form profile lambda(alpha) = alpha*D/sum(u) only holds when every observation is
// uncensored, so the general censored case recovers both parameters jointly (§4.2).
func fitGamma(obs models.ObservationSet, theta0 []float64, opt Options) newtonResult {
	ll := totalLogLik(distributions.Gamma, obs)
	return runNewton(ll, theta0, []paramDomain{domainPositive, domainPositive}, opt)
}

// fitGeneralizedGamma performs the two-level search of §4.2: an outer bracket over beta (a fixed
// grid, refined by including the caller's initial beta as a candidate), an inner joint
// Newton-Raphson over (alpha, lambda) at each fixed beta, and a final joint three-parameter
// Newton-Raphson polish from the best bracket point.
func fitGeneralizedGamma(obs models.ObservationSet, theta0 []float64, opt Options) newtonResult {
	ll := totalLogLik(distributions.GeneralizedGamma, obs)
	const betaLower, betaUpper = 0.1, 10.0

	grid := []float64{0.1, 0.25, 0.5, 0.75, 1, 1.5, 2, 3, 5, 8, 10}
	if len(theta0) == 3 && theta0[1] >= betaLower && theta0[1] <= betaUpper {
		grid = append(grid, theta0[1])
	}

	alpha0, lambda0 := 1.0, 1.0
	if len(theta0) == 3 {
		alpha0, lambda0 = theta0[0], theta0[2]
	}

	bestLL := math.Inf(-1)
	var bestTheta []float64
	var bestConverged bool
	var bestIter int

	for _, beta := range grid {
		innerObj := func(theta []float64) float64 {
			return ll([]float64{theta[0], beta, theta[1]})
		}
		sub := runNewton(innerObj, []float64{alpha0, lambda0}, []paramDomain{domainPositive, domainPositive}, opt)
		full := []float64{sub.ThetaHat[0], beta, sub.ThetaHat[1]}
		llv := ll(full)
		if llv > bestLL {
			bestLL, bestTheta, bestConverged, bestIter = llv, full, sub.Converged, sub.Iterations
		}
	}

	polished := runNewton(ll, bestTheta, []paramDomain{domainPositive, domainPositive, domainPositive}, opt)
	if polished.LogLik >= bestLL {
		return polished
	}
	return newtonResult{ThetaHat: bestTheta, LogLik: bestLL, Converged: bestConverged, Iterations: bestIter}
}
