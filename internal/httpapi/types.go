package httpapi

import (
	"time"

	"github.com/kestrelstack/survfit-engine/internal/distributions"
	"github.com/kestrelstack/survfit-engine/internal/models"
)

// ObservationDTO is the wire representation of models.Observation, optionally carrying an arm
// label for the contrast endpoint.
type ObservationDTO struct {
	Time   float64 `json:"time"`
	Status int     `json:"status"`
	Arm    int     `json:"arm,omitempty"`
}

// FitRequest is the JSON body of POST /v1/fit (§6 "Fitting call").
type FitRequest struct {
	Family       distributions.Family `json:"family"`
	Observations []ObservationDTO     `json:"observations"`
	Theta0       []float64            `json:"theta0,omitempty"`
	Sig          float64              `json:"sig,omitempty"`
	Tau          []float64            `json:"tau,omitempty"`
	Eps          float64              `json:"eps,omitempty"`
	MaxIt        int                  `json:"maxit,omitempty"`
}

// ContrastRequest is the JSON body of POST /v1/contrast (§6 "Contrast call"): one arm-labeled
// observation array fit independently under dist1 (target) and dist0 (reference).
type ContrastRequest struct {
	Observations []ObservationDTO     `json:"observations"`
	Dist1        distributions.Family `json:"dist1"`
	Dist0        distributions.Family `json:"dist0"`
	Sig          float64              `json:"sig,omitempty"`
	Tau          []float64            `json:"tau,omitempty"`
}

// FunctionalDTO mirrors models.FunctionalEstimate for the wire.
type FunctionalDTO struct {
	Estimate   float64                `json:"estimate"`
	SE         float64                `json:"se"`
	CILower    float64                `json:"ciLower"`
	CIUpper    float64                `json:"ciUpper"`
	Gradient   []float64              `json:"gradient,omitempty"`
	Quadrature *models.QuadratureInfo `json:"quadrature,omitempty"`
}

// FitResponse is the JSON body returned by POST /v1/fit: the fit object of §3, flattened for JSON.
type FitResponse struct {
	RunID string `json:"runId"`

	Family      distributions.Family `json:"family"`
	ThetaHat    []float64            `json:"thetaHat"`
	Sigma       [][]float64          `json:"sigma"`
	SigmaRobust bool                 `json:"sigmaRobust"`

	LogLikelihood float64 `json:"logLikelihood"`
	Converged     bool    `json:"converged"`
	Iterations    int     `json:"iterations"`

	Mean     FunctionalDTO            `json:"mean"`
	Median   FunctionalDTO            `json:"median"`
	Variance FunctionalDTO            `json:"variance"`
	RMST     map[string]FunctionalDTO `json:"rmst,omitempty"`

	N          int       `json:"n"`
	EventCount int       `json:"eventCount"`
	Sig        float64   `json:"sig"`
	FittedAt   time.Time `json:"fittedAt"`
}

// DiffRatioDTO mirrors models.DiffRatioRecord for the wire.
type DiffRatioDTO struct {
	Functional string `json:"functional"`

	DiffEstimate float64 `json:"diffEstimate"`
	DiffSE       float64 `json:"diffSE"`
	DiffCILower  float64 `json:"diffCILower"`
	DiffCIUpper  float64 `json:"diffCIUpper"`
	DiffP        float64 `json:"diffP"`

	RatioEstimate float64 `json:"ratioEstimate,omitempty"`
	RatioSE       float64 `json:"ratioSE,omitempty"`
	RatioCILower  float64 `json:"ratioCILower,omitempty"`
	RatioCIUpper  float64 `json:"ratioCIUpper,omitempty"`
	RatioP        float64 `json:"ratioP,omitempty"`
}

// ContrastResponse is the JSON body returned by POST /v1/contrast: the contrast object of §3.
type ContrastResponse struct {
	RunID string `json:"runId"`

	Target    FitResponse `json:"target"`
	Reference FitResponse `json:"reference"`

	Sig     float64        `json:"sig"`
	Records []DiffRatioDTO `json:"records"`
}

// ErrorResponse is the JSON body returned on any non-2xx response.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
