package linalg

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Mat2 is a 2x2 matrix indexed as m[row][col].
type Mat2 [2][2]float64

// Identity2 returns the 2x2 identity matrix.
func Identity2() Mat2 { return Mat2{{1, 0}, {0, 1}} }

// Diag returns the diagonal matrix with a and b on the diagonal.
func Diag(a, b float64) Mat2 { return Mat2{{a, 0}, {0, b}} }

// FromRows returns the matrix whose rows are r0 and r1.
func FromRows(r0, r1 r2.Vec) Mat2 {
	return Mat2{{r0.X, r0.Y}, {r1.X, r1.Y}}
}

// Row returns the ith row of m as a vector.
func (m Mat2) Row(i int) r2.Vec { return r2.Vec{X: m[i][0], Y: m[i][1]} }

// Trace returns the sum of the diagonal entries of m.
func (m Mat2) Trace() float64 { return m[0][0] + m[1][1] }

// Det returns the determinant of m.
func (m Mat2) Det() float64 { return m[0][0]*m[1][1] - m[0][1]*m[1][0] }

// MulVec returns m·v.
func (m Mat2) MulVec(v r2.Vec) r2.Vec {
	return r2.Vec{
		X: m[0][0]*v.X + m[0][1]*v.Y,
		Y: m[1][0]*v.X + m[1][1]*v.Y,
	}
}

// Mul returns the matrix product m·b.
func (m Mat2) Mul(b Mat2) Mat2 {
	var r Mat2
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			r[i][j] = m[i][0]*b[0][j] + m[i][1]*b[1][j]
		}
	}
	return r
}

// Transpose returns the transpose of m.
func (m Mat2) Transpose() Mat2 {
	return Mat2{{m[0][0], m[1][0]}, {m[0][1], m[1][1]}}
}

// Scale returns m with every entry multiplied by f.
func (m Mat2) Scale(f float64) Mat2 {
	return Mat2{{f * m[0][0], f * m[0][1]}, {f * m[1][0], f * m[1][1]}}
}

// Add returns the entrywise sum m+b.
func (m Mat2) Add(b Mat2) Mat2 {
	return Mat2{{m[0][0] + b[0][0], m[0][1] + b[0][1]}, {m[1][0] + b[1][0], m[1][1] + b[1][1]}}
}

// Sub returns the entrywise difference m-b.
func (m Mat2) Sub(b Mat2) Mat2 {
	return m.Add(b.Scale(-1))
}

// Inverse returns the inverse of m. The result has infinite or NaN
// entries when m is singular.
func (m Mat2) Inverse() Mat2 {
	d := m.Det()
	return Mat2{{m[1][1] / d, -m[0][1] / d}, {-m[1][0] / d, m[0][0] / d}}
}

// Norm returns the Frobenius norm of m.
func (m Mat2) Norm() float64 {
	return math.Sqrt(m[0][0]*m[0][0] + m[0][1]*m[0][1] + m[1][0]*m[1][0] + m[1][1]*m[1][1])
}

// IsSymmetric reports whether the off-diagonal entries differ by at most tol.
func (m Mat2) IsSymmetric(tol float64) bool {
	return math.Abs(m[0][1]-m[1][0]) <= tol
}

// IsFinite reports whether no entry of m is NaN or infinite.
func (m Mat2) IsFinite() bool {
	for i := range m {
		for _, v := range m[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// EqualWithin reports whether all entries of a and b differ by at most tol.
func EqualWithin(a, b Mat2, tol float64) bool {
	for i := range a {
		for j := range a[i] {
			if math.Abs(a[i][j]-b[i][j]) > tol {
				return false
			}
		}
	}
	return true
}
