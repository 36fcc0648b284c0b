package functionals

import (
	"math"

	"github.com/kestrelstack/survfit-engine/internal/distributions"
)

// genGammaRawMoment returns E[T^k] for the generalized gamma family, which subsumes gamma (beta=1),
// Weibull (alpha=1), and exponential (alpha=beta=1) as special cases: E[T^k] = lambda^-k *
// Gamma(alpha + k/beta) / Gamma(alpha).
func genGammaRawMoment(alpha, beta, lambda, k float64) float64 {
	logNum, _ := math.Lgamma(alpha + k/beta)
	logDen, _ := math.Lgamma(alpha)
	return math.Exp(logNum-logDen) * math.Pow(lambda, -k)
}

func meanValue(family distributions.Family, theta []float64) float64 {
	switch family {
	case distributions.Exponential:
		return 1 / theta[0]
	case distributions.Gamma:
		alpha, lambda := theta[0], theta[1]
		return alpha / lambda
	case distributions.GeneralizedGamma:
		alpha, beta, lambda := theta[0], theta[1], theta[2]
		return genGammaRawMoment(alpha, beta, lambda, 1)
	case distributions.LogNormal:
		mu, sigma := theta[0], theta[1]
		return math.Exp(mu + 0.5*sigma*sigma)
	case distributions.Weibull:
		alpha, lambda := theta[0], theta[1]
		logG, _ := math.Lgamma(1 + 1/alpha)
		return math.Exp(logG) / lambda
	default:
		return math.NaN()
	}
}

func varianceValue(family distributions.Family, theta []float64) float64 {
	switch family {
	case distributions.Exponential:
		lambda := theta[0]
		return 1 / (lambda * lambda)
	case distributions.Gamma:
		alpha, lambda := theta[0], theta[1]
		return alpha / (lambda * lambda)
	case distributions.GeneralizedGamma:
		alpha, beta, lambda := theta[0], theta[1], theta[2]
		m1 := genGammaRawMoment(alpha, beta, lambda, 1)
		m2 := genGammaRawMoment(alpha, beta, lambda, 2)
		return m2 - m1*m1
	case distributions.LogNormal:
		mu, sigma := theta[0], theta[1]
		s2 := sigma * sigma
		return (math.Exp(s2) - 1) * math.Exp(2*mu+s2)
	case distributions.Weibull:
		alpha, lambda := theta[0], theta[1]
		logG1, _ := math.Lgamma(1 + 1/alpha)
		logG2, _ := math.Lgamma(1 + 2/alpha)
		g1, g2 := math.Exp(logG1), math.Exp(logG2)
		return (g2 - g1*g1) / (lambda * lambda)
	default:
		return math.NaN()
	}
}
