package functionals

import (
	"math"

	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

// medianValue returns the closed-form median where the family's survival function inverts
// algebraically (exponential, Weibull, log-normal), and falls back to bisection on S(t)=0.5
// for gamma and generalized gamma, which have no closed-form quantile.
func medianValue(family distributions.Family, theta []float64) (float64, *models.QuadratureInfo) {
	switch family {
	case distributions.Exponential:
		lambda := theta[0]
		return math.Ln2 / lambda, nil
	case distributions.Weibull:
		alpha, lambda := theta[0], theta[1]
		return math.Pow(math.Ln2, 1/alpha) / lambda, nil
	case distributions.LogNormal:
		mu := theta[0]
		return math.Exp(mu), nil
	case distributions.Gamma, distributions.GeneralizedGamma:
		return bisectSurvivalQuantile(family, theta, 0.5)
	default:
		return math.NaN(), nil
	}
}
