package functionals

import (
	"math"
	"testing"

	"github.com/kestrelstack/survfit-engine/internal/distributions"
)

func TestMeanValuePerFamily(t *testing.T) {
	cases := []struct {
		family distributions.Family
		theta  []float64
		want   float64
	}{
		{distributions.Exponential, []float64{2.0}, 0.5},
		{distributions.Gamma, []float64{3.0, 1.5}, 2.0},
		{distributions.LogNormal, []float64{0.0, 1.0}, math.Exp(0.5)},
	}
	for _, c := range cases {
		if got := meanValue(c.family, c.theta); !approxEqual(got, c.want, 1e-9) {
			t.Fatalf("%s: got %v want %v", c.family, got, c.want)
		}
	}
}

func TestGenGammaRawMomentSubsumesExponentialMean(t *testing.T) {
	lambda := 2.5
	// alpha=beta=1 is the exponential special case of the generalized gamma; E[T]=1/lambda.
	got := genGammaRawMoment(1, 1, lambda, 1)
	if !approxEqual(got, 1/lambda, 1e-9) {
		t.Fatalf("got %v want %v", got, 1/lambda)
	}
}

func TestGenGammaRawMomentSubsumesWeibullMean(t *testing.T) {
	alpha, lambda := 1.0, 1.4
	beta := 2.3
	got := genGammaRawMoment(alpha, beta, lambda, 1)
	logG, _ := math.Lgamma(1 + 1/beta)
	want := math.Exp(logG) / lambda
	if !approxEqual(got, want, 1e-9) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestVarianceValuePerFamily(t *testing.T) {
	cases := []struct {
		family distributions.Family
		theta  []float64
		want   float64
	}{
		{distributions.Exponential, []float64{2.0}, 0.25},
		{distributions.Gamma, []float64{3.0, 1.5}, 3.0 / (1.5 * 1.5)},
	}
	for _, c := range cases {
		if got := varianceValue(c.family, c.theta); !approxEqual(got, c.want, 1e-9) {
			t.Fatalf("%s: got %v want %v", c.family, got, c.want)
		}
	}
}

func TestMeanValueUnknownFamilyReturnsNaN(t *testing.T) {
	if got := meanValue(distributions.Family("bogus"), []float64{1}); !math.IsNaN(got) {
		t.Fatalf("expected NaN for an unrecognized family, got %v", got)
	}
}
