package estimate

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSolveLinearIdentity(t *testing.T) {
	a := matrix{{1, 0}, {0, 1}}
	b := []float64{3, 4}
	x, ok := solveLinear(a, b)
	if !ok {
		t.Fatalf("expected a solution for the identity matrix")
	}
	if !approxEqual(x[0], 3, 1e-12) || !approxEqual(x[1], 4, 1e-12) {
		t.Fatalf("unexpected solution: %v", x)
	}
}

func TestSolveLinearKnownSystem(t *testing.T) {
	// [2 1; 1 3] x = [5; 10] has solution x = [1, 3].
	a := matrix{{2, 1}, {1, 3}}
	b := []float64{5, 10}
	x, ok := solveLinear(a, b)
	if !ok {
		t.Fatalf("expected a solution")
	}
	if !approxEqual(x[0], 1, 1e-9) || !approxEqual(x[1], 3, 1e-9) {
		t.Fatalf("unexpected solution: %v", x)
	}
}

func TestSolveLinearSingularReportsFailure(t *testing.T) {
	a := matrix{{1, 2}, {2, 4}}
	if _, ok := solveLinear(a, []float64{1, 2}); ok {
		t.Fatalf("expected a singular matrix to be reported as unsolvable")
	}
}

func TestCholeskyAndInvertRoundTrip(t *testing.T) {
	a := matrix{{4, 2}, {2, 3}}
	l, ok := cholesky(a)
	if !ok {
		t.Fatalf("expected a positive-definite matrix to factor")
	}

	inv := invertFromCholesky(l)
	if inv == nil {
		t.Fatalf("expected a non-nil inverse")
	}

	product := matMul(a, inv)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if !approxEqual(product[i][j], want, 1e-8) {
				t.Fatalf("A*A^-1 != I at (%d,%d): got %v", i, j, product[i][j])
			}
		}
	}
}

func TestCholeskyRejectsNonPositiveDefinite(t *testing.T) {
	a := matrix{{1, 2}, {2, 1}} // eigenvalues 3, -1
	if _, ok := cholesky(a); ok {
		t.Fatalf("expected a non-positive-definite matrix to fail the Cholesky test")
	}
}

func TestJacobiEigenRecoversDiagonalMatrix(t *testing.T) {
	a := matrix{{5, 0}, {0, 9}}
	values, _ := jacobiEigen(a)
	sortedLow, sortedHigh := values[0], values[1]
	if sortedLow > sortedHigh {
		sortedLow, sortedHigh = sortedHigh, sortedLow
	}
	if !approxEqual(sortedLow, 5, 1e-9) || !approxEqual(sortedHigh, 9, 1e-9) {
		t.Fatalf("expected eigenvalues {5,9}, got %v", values)
	}
}

func TestPseudoInverseMatchesInverseWhenPositiveDefinite(t *testing.T) {
	a := matrix{{4, 2}, {2, 3}}
	l, ok := cholesky(a)
	if !ok {
		t.Fatalf("expected a positive-definite matrix")
	}
	direct := invertFromCholesky(l)
	pseudo := pseudoInverse(a, 1e-10)

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if !approxEqual(direct[i][j], pseudo[i][j], 1e-6) {
				t.Fatalf("pseudo-inverse diverges from direct inverse at (%d,%d): %v vs %v", i, j, pseudo[i][j], direct[i][j])
			}
		}
	}
}

func TestSymmetrizeAveragesOffDiagonals(t *testing.T) {
	a := matrix{{1, 3}, {1, 1}}
	sym := a.symmetrize()
	if !approxEqual(sym[0][1], 2, 1e-12) || !approxEqual(sym[1][0], 2, 1e-12) {
		t.Fatalf("expected off-diagonals averaged to 2, got %v", sym)
	}
}
