package estimate

import (
	"testing"

	"github.com/kestrelstack/survfit-engine/internal/distributions"
)

func TestObservedInformationChoosesCholeskyPathForWellBehavedLikelihood(t *testing.T) {
	times := []float64{0.3, 0.7, 1.1, 0.5, 1.9, 0.4, 1.2, 0.9, 0.6, 1.5}
	obs := allEvents(times)
	fitRes := fitExponential(obs)

	info := observedInformation(totalLogLik(distributions.Exponential, obs), fitRes.ThetaHat, perObservationObjectives(distributions.Exponential, obs))
	if info.Robust {
		t.Fatalf("expected the Cholesky path for a well-conditioned exponential likelihood")
	}
	if info.Sigma[0][0] <= 0 {
		t.Fatalf("expected a positive variance, got %v", info.Sigma[0][0])
	}

	// For the exponential MLE, the asymptotic variance of lambda_hat is lambda_hat^2 / D.
	lambda := fitRes.ThetaHat[0]
	d := float64(obs.EventCount())
	want := lambda * lambda / d
	if !approxEqual(info.Sigma[0][0], want, 1e-3) {
		t.Fatalf("variance: got %v want ~%v", info.Sigma[0][0], want)
	}
}

func TestObservedInformationFallsBackToRobustSandwichWhenHessianIsDegenerate(t *testing.T) {
	// A flat objective has a zero Hessian everywhere, which fails the Cholesky positive-
	// definiteness test and forces the pseudo-inverse sandwich fallback.
	flat := func(theta []float64) float64 { return 0 }
	perObs := []func([]float64) float64{
		func(theta []float64) float64 { return 0 },
		func(theta []float64) float64 { return 0 },
	}

	info := observedInformation(flat, []float64{1, 1}, perObs)
	if !info.Robust {
		t.Fatalf("expected the robust sandwich fallback for a degenerate Hessian")
	}
}
