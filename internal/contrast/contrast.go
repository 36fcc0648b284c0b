// Package contrast computes the two-sample difference and ratio of each functional between two
// independently fitted models, per §4.5 of the spec: a natural-scale Wald CI for the difference,
// a log-scale Wald CI for the ratio, and a two-sided p-value for each. The two fits are assumed
// independent (different arms, §6), so variances add directly — no covariance term between them
// is estimated or needed.
package contrast

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kestrelstack/survfit-engine/internal/apperr"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

const opContrast = "contrast.Compute"

// Compute derives a ContrastResult comparing target against reference at significance level sig.
// Both fits must have been produced at the same sig and with the same requested RMST truncation
// times; only functionals present in both fits are contrasted.
func Compute(target, reference models.FitResult, sig float64, runID string) (models.ContrastResult, error) {
	if sig <= 0 || sig >= 1 {
		return models.ContrastResult{}, apperr.New(opContrast, apperr.InvalidSig, "significance level must lie in (0,1)")
	}

	records := []models.DiffRatioRecord{
		diffRatio("mean", target.Mean, reference.Mean, sig),
		diffRatio("median", target.Median, reference.Median, sig),
		diffRatio("variance", target.Variance, reference.Variance, sig),
	}

	taus := make([]float64, 0, len(target.RMST))
	for tau := range target.RMST {
		if _, ok := reference.RMST[tau]; ok {
			taus = append(taus, tau)
		}
	}
	sort.Float64s(taus)
	for _, tau := range taus {
		name := "rmst"
		records = append(records, diffRatio(name, target.RMST[tau], reference.RMST[tau], sig))
	}

	return models.ContrastResult{
		RunID:     runID,
		Target:    target,
		Reference: reference,
		Sig:       sig,
		Records:   records,
	}, nil
}

// diffRatio builds one DiffRatioRecord from a pair of independent functional estimates.
func diffRatio(name string, a, b models.FunctionalEstimate, sig float64) models.DiffRatioRecord {
	z := distuv.UnitNormal.Quantile(1 - sig/2)

	diff := a.Estimate - b.Estimate
	diffSE := math.Sqrt(a.SE*a.SE + b.SE*b.SE)
	diffLower, diffUpper := diff-z*diffSE, diff+z*diffSE
	diffZ := 0.0
	if diffSE > 0 {
		diffZ = diff / diffSE
	}
	diffP := twoSidedP(diffZ)

	ratio := math.NaN()
	ratioSE := math.NaN()
	ratioLower, ratioUpper := math.NaN(), math.NaN()
	ratioP := math.NaN()
	if a.Estimate > 0 && b.Estimate > 0 {
		ratio = a.Estimate / b.Estimate
		logSE := math.Sqrt(math.Pow(a.SE/a.Estimate, 2) + math.Pow(b.SE/b.Estimate, 2))
		ratioSE = logSE
		logRatio := math.Log(ratio)
		ratioLower = math.Exp(logRatio - z*logSE)
		ratioUpper = math.Exp(logRatio + z*logSE)
		ratioZ := 0.0
		if logSE > 0 {
			ratioZ = logRatio / logSE
		}
		ratioP = twoSidedP(ratioZ)
	}

	return models.DiffRatioRecord{
		Functional:    name,
		DiffEstimate:  diff,
		DiffSE:        diffSE,
		DiffCILower:   diffLower,
		DiffCIUpper:   diffUpper,
		DiffP:         diffP,
		RatioEstimate: ratio,
		RatioSE:       ratioSE,
		RatioCILower:  ratioLower,
		RatioCIUpper:  ratioUpper,
		RatioP:        ratioP,
	}
}

func twoSidedP(z float64) float64 {
	return 2 * distuv.UnitNormal.CDF(-math.Abs(z))
}
