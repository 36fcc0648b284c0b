package estimate

import "math"

// Every parameter vector in this domain has at most three coordinates (generalized gamma), so a
// general dense linear-algebra dependency buys nothing here; these small NxN routines are the
// core numerical-estimation code the spec frames as this project's own responsibility (§4.2,
// §4.3), not an ambient concern to delegate to a library.

// matrix is a small dense square matrix, row-major as [][]float64.
type matrix [][]float64

func newMatrix(n int) matrix {
	m := make(matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

func (m matrix) n() int { return len(m) }

func (m matrix) symmetrize() matrix {
	n := m.n()
	out := newMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i][j] = 0.5 * (m[i][j] + m[j][i])
		}
	}
	return out
}

// solveLinear solves A x = b via Gauss-Jordan elimination with partial pivoting. Returns false if
// A is numerically singular.
func solveLinear(a matrix, b []float64) ([]float64, bool) {
	n := a.n()
	aug := newMatrix(n)
	for i := 0; i < n; i++ {
		copy(aug[i], a[i])
	}
	x := make([]float64, n)
	copy(x, b)

	for col := 0; col < n; col++ {
		pivot := col
		best := math.Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(aug[r][col]); v > best {
				pivot, best = r, v
			}
		}
		if best < 1e-14 {
			return nil, false
		}
		if pivot != col {
			aug[col], aug[pivot] = aug[pivot], aug[col]
			x[col], x[pivot] = x[pivot], x[col]
		}
		pv := aug[col][col]
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col] / pv
			if factor == 0 {
				continue
			}
			for c := col; c < n; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
			x[r] -= factor * x[col]
		}
	}
	for i := 0; i < n; i++ {
		x[i] /= aug[i][i]
	}
	return x, true
}

// cholesky attempts a lower-triangular factorization A = L L^T, the positive-definiteness test
// from §4.3 ("attempt a Cholesky-style test before trusting the inverse").
func cholesky(a matrix) (matrix, bool) {
	n := a.n()
	l := newMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := a[i][j]
			for k := 0; k < j; k++ {
				sum -= l[i][k] * l[j][k]
			}
			if i == j {
				if sum <= 1e-12 {
					return nil, false
				}
				l[i][j] = math.Sqrt(sum)
			} else {
				l[i][j] = sum / l[j][j]
			}
		}
	}
	return l, true
}

// invertFromCholesky returns A^-1 given its Cholesky factor L, by reconstructing A = L L^T and
// solving A x_k = e_k for each column k.
func invertFromCholesky(l matrix) matrix {
	n := l.n()
	a := newMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			lim := i
			if j < lim {
				lim = j
			}
			for k := 0; k <= lim; k++ {
				sum += l[i][k] * l[j][k]
			}
			a[i][j] = sum
		}
	}
	inv := newMatrix(n)
	e := make([]float64, n)
	for k := 0; k < n; k++ {
		for i := range e {
			e[i] = 0
		}
		e[k] = 1
		col, ok := solveLinear(a, e)
		if !ok {
			return nil
		}
		for i := 0; i < n; i++ {
			inv[i][k] = col[i]
		}
	}
	return inv
}

// jacobiEigen computes the eigendecomposition of a symmetric matrix via the classical Jacobi
// rotation method. Used only on the rare non-positive-definite fallback path (§4.3), so a
// textbook O(n^3 * sweeps) implementation is appropriate at the n<=3 sizes this package sees.
func jacobiEigen(a matrix) (values []float64, vectors matrix) {
	n := a.n()
	m := newMatrix(n)
	for i := 0; i < n; i++ {
		copy(m[i], a[i])
	}
	v := newMatrix(n)
	for i := 0; i < n; i++ {
		v[i][i] = 1
	}

	for sweep := 0; sweep < 100; sweep++ {
		off := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				off += m[i][j] * m[i][j]
			}
		}
		if off < 1e-18 {
			break
		}
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				if math.Abs(m[p][q]) < 1e-18 {
					continue
				}
				theta := (m[q][q] - m[p][p]) / (2 * m[p][q])
				t := sign(theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				mpp, mqq, mpq := m[p][p], m[q][q], m[p][q]
				m[p][p] = c*c*mpp - 2*s*c*mpq + s*s*mqq
				m[q][q] = s*s*mpp + 2*s*c*mpq + c*c*mqq
				m[p][q] = 0
				m[q][p] = 0
				for k := 0; k < n; k++ {
					if k != p && k != q {
						mkp, mkq := m[k][p], m[k][q]
						m[k][p] = c*mkp - s*mkq
						m[p][k] = m[k][p]
						m[k][q] = s*mkp + c*mkq
						m[q][k] = m[k][q]
					}
				}
				for k := 0; k < n; k++ {
					vkp, vkq := v[k][p], v[k][q]
					v[k][p] = c*vkp - s*vkq
					v[k][q] = s*vkp + c*vkq
				}
			}
		}
	}
	values = make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = m[i][i]
	}
	return values, v
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// pseudoInverse computes the Moore-Penrose pseudo-inverse of a symmetric matrix via its eigen
// decomposition, truncating eigenvalues below tol. This is the §4.3 fallback path used when the
// observed information fails the Cholesky test.
func pseudoInverse(a matrix, tol float64) matrix {
	n := a.n()
	values, vecs := jacobiEigen(a)
	inv := newMatrix(n)
	for k := 0; k < n; k++ {
		if math.Abs(values[k]) < tol {
			continue
		}
		invLambda := 1 / values[k]
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				inv[i][j] += vecs[i][k] * invLambda * vecs[j][k]
			}
		}
	}
	return inv
}

func matMul(a, b matrix) matrix {
	n := a.n()
	out := newMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}
