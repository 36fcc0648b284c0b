package functionals

import (
	"math"
	"testing"

	"github.com/kestrelstack/survfit-engine/internal/distributions"
)

func TestRMSTValueExponentialClosedForm(t *testing.T) {
	lambda, tau := 1.7, 0.9
	got, quad := rmstValue(distributions.Exponential, []float64{lambda}, tau)
	want := (1 - math.Exp(-lambda*tau)) / lambda
	if !approxEqual(got, want, 1e-12) {
		t.Fatalf("got %v want %v", got, want)
	}
	if quad != nil {
		t.Fatalf("expected no quadrature info for the exponential closed form, got %+v", quad)
	}
}

func TestRMSTValueSimpsonApproachesAnalyticWeibullIntegral(t *testing.T) {
	// Weibull(alpha=1) reduces to exponential, whose RMST has a closed form; the Simpson's-rule
	// fallback taken for every non-exponential family should land close to it.
	lambda, tau := 1.3, 1.1
	got, quad := rmstValue(distributions.Weibull, []float64{1, lambda}, tau)
	want := (1 - math.Exp(-lambda*tau)) / lambda
	if !approxEqual(got, want, 1e-6) {
		t.Fatalf("got %v want %v", got, want)
	}
	if quad == nil || quad.Failed {
		t.Fatalf("expected a successful composite-simpson quadrature, got %+v", quad)
	}
	if quad.Method != "composite-simpson" {
		t.Fatalf("expected method composite-simpson, got %v", quad.Method)
	}
}

func TestRMSTValueIsIncreasingInTau(t *testing.T) {
	theta := []float64{2.0, 1.1}
	prev := 0.0
	for _, tau := range []float64{0.1, 0.5, 1.0, 2.0} {
		got, _ := rmstValue(distributions.Weibull, theta, tau)
		if got <= prev {
			t.Fatalf("rmst should increase with tau: tau=%v got %v, previous %v", tau, got, prev)
		}
		prev = got
	}
}
