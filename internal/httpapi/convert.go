package httpapi

import (
	"strconv"

	"github.com/kestrelstack/survfit-engine/internal/models"
)

func toObservationSet(obs []ObservationDTO) models.ObservationSet {
	out := make([]models.Observation, 0, len(obs))
	for _, o := range obs {
		out = append(out, models.Observation{Time: o.Time, Status: o.Status})
	}
	return models.ObservationSet{Obs: out}
}

func toArmObservations(obs []ObservationDTO) []models.ArmObservation {
	out := make([]models.ArmObservation, 0, len(obs))
	for _, o := range obs {
		arm := models.ArmReference
		if o.Arm == 1 {
			arm = models.ArmTarget
		}
		out = append(out, models.ArmObservation{
			Observation: models.Observation{Time: o.Time, Status: o.Status},
			Arm:         arm,
		})
	}
	return out
}

func toFunctionalDTO(f models.FunctionalEstimate) FunctionalDTO {
	return FunctionalDTO{
		Estimate:   f.Estimate,
		SE:         f.SE,
		CILower:    f.CILower,
		CIUpper:    f.CIUpper,
		Gradient:   f.Gradient,
		Quadrature: f.Quadrature,
	}
}

func toFitResponse(runID string, fit models.FitResult) FitResponse {
	n := fit.Sigma.N
	sigma := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			row[j] = fit.Sigma.At(i, j)
		}
		sigma[i] = row
	}

	rmst := make(map[string]FunctionalDTO, len(fit.RMST))
	for tau, f := range fit.RMST {
		rmst[strconv.FormatFloat(tau, 'g', -1, 64)] = toFunctionalDTO(f)
	}

	return FitResponse{
		RunID:         runID,
		Family:        fit.Family,
		ThetaHat:      []float64(fit.ThetaHat),
		Sigma:         sigma,
		SigmaRobust:   fit.SigmaRobust,
		LogLikelihood: fit.LogLikelihood,
		Converged:     fit.Converged,
		Iterations:    fit.Iterations,
		Mean:          toFunctionalDTO(fit.Mean),
		Median:        toFunctionalDTO(fit.Median),
		Variance:      toFunctionalDTO(fit.Variance),
		RMST:          rmst,
		N:             fit.N,
		EventCount:    fit.EventCount,
		Sig:           fit.Sig,
		FittedAt:      fit.FittedAt,
	}
}

func toDiffRatioDTO(r models.DiffRatioRecord) DiffRatioDTO {
	return DiffRatioDTO{
		Functional:    r.Functional,
		DiffEstimate:  r.DiffEstimate,
		DiffSE:        r.DiffSE,
		DiffCILower:   r.DiffCILower,
		DiffCIUpper:   r.DiffCIUpper,
		DiffP:         r.DiffP,
		RatioEstimate: r.RatioEstimate,
		RatioSE:       r.RatioSE,
		RatioCILower:  r.RatioCILower,
		RatioCIUpper:  r.RatioCIUpper,
		RatioP:        r.RatioP,
	}
}

func toContrastResponse(runID string, res models.ContrastResult) ContrastResponse {
	records := make([]DiffRatioDTO, 0, len(res.Records))
	for _, r := range res.Records {
		records = append(records, toDiffRatioDTO(r))
	}
	return ContrastResponse{
		RunID:     runID,
		Target:    toFitResponse(runID, res.Target),
		Reference: toFitResponse(runID, res.Reference),
		Sig:       res.Sig,
		Records:   records,
	}
}

func defaultSig(sig float64) float64 {
	if sig <= 0 {
		return 0.05
	}
	return sig
}
