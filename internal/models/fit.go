package models

import (
	"time"

	"github.com/kestrelstack/survfit-engine/internal/distributions"
)

// Theta is the native parameter vector θ, ordered per the family's distributions.Descriptor.
type Theta []float64

// Clone returns an independent copy, since Theta backs immutable Fit objects (§3 Lifecycle).
func (t Theta) Clone() Theta {
	c := make(Theta, len(t))
	copy(c, t)
	return c
}

// Matrix is a dense, row-major square covariance matrix in the native parameterization.
type Matrix struct {
	N    int
	Data []float64 // row-major, len == N*N
}

// NewMatrix allocates a zeroed N×N matrix.
func NewMatrix(n int) Matrix { return Matrix{N: n, Data: make([]float64, n*n)} }

// At returns element (i,j).
func (m Matrix) At(i, j int) float64 { return m.Data[i*m.N+j] }

// Set assigns element (i,j).
func (m Matrix) Set(i, j int, v float64) { m.Data[i*m.N+j] = v }

// Symmetric reports whether the matrix is numerically symmetric within tol.
func (m Matrix) Symmetric(tol float64) bool {
	for i := 0; i < m.N; i++ {
		for j := i + 1; j < m.N; j++ {
			d := m.At(i, j) - m.At(j, i)
			if d > tol || d < -tol {
				return false
			}
		}
	}
	return true
}

// FunctionalEstimate is a point estimate of a functional g(θ) with its delta-method SE, Wald CI,
// and the gradient used to derive the SE (§3 Fit object, §4.4).
type FunctionalEstimate struct {
	Name     string
	Estimate float64
	SE       float64
	CILower  float64
	CIUpper  float64
	Gradient []float64
	// Quadrature is set when the estimate required the numeric quadrature fallback (§4.4); nil
	// when a closed form sufficed.
	Quadrature *QuadratureInfo
}

// QuadratureInfo records the fallback numeric-integration path taken for a functional, per §9
// ("quadrature is a documented fallback and must report its tolerance").
type QuadratureInfo struct {
	Method    string
	Tolerance float64
	Failed    bool
}

// FitResult is the immutable output of an estimator (§3 Fit object).
type FitResult struct {
	RunID string // correlation id for logs, not part of the numerical result

	Family      distributions.Family
	ThetaHat    Theta
	Sigma       Matrix
	SigmaRobust bool

	LogLikelihood float64
	Converged     bool
	Iterations    int

	Mean     FunctionalEstimate
	Median   FunctionalEstimate
	Variance FunctionalEstimate
	RMST     map[float64]FunctionalEstimate // keyed by tau

	N          int
	EventCount int
	Sig        float64
	FittedAt   time.Time
}
