package linalg

import (
	"math"

	"github.com/soypat/ddg"
	"gonum.org/v1/gonum/spatial/r2"
)

// orthoTol is the largest |v1·v2| tolerated by EigenSym before it warns.
const orthoTol = 1e-10

// Eigen2 is the eigen-decomposition of a 2x2 matrix.
type Eigen2 struct {
	// Values holds the major and minor eigenvalue, Values[0] >= Values[1].
	Values [2]float64
	// Vectors rows are the unit eigenvectors of Values[0] and Values[1].
	Vectors Mat2
	// Real is false when the eigenvalues are complex. Values then both hold
	// the real part and Vectors is the identity basis.
	Real bool
	// Fallback is set when Vectors was replaced by the identity basis
	// because the computed eigenvectors were unusable.
	Fallback bool
}

// Major returns the eigenvector of the larger eigenvalue.
func (e Eigen2) Major() r2.Vec { return e.Vectors.Row(0) }

// Minor returns the eigenvector of the smaller eigenvalue.
func (e Eigen2) Minor() r2.Vec { return e.Vectors.Row(1) }

// Eigen decomposes m in closed form from its trace and determinant.
// Eigenvectors come from the (1,0) entry, or from the (0,1) entry when that
// gives the better conditioned null vector. A diagonal m returns the
// identity basis, rows ordered to match Values. Complex eigenvalues or
// unusable eigenvectors fall back to the identity basis so NaN never escapes.
func Eigen(m Mat2) Eigen2 {
	t := m.Trace()
	d := m.Det()
	disc := t*t - 4*d
	if disc < 0 || math.IsNaN(disc) {
		return Eigen2{Values: [2]float64{t / 2, t / 2}, Vectors: Identity2(), Fallback: true}
	}
	root := math.Sqrt(disc)
	e := Eigen2{Values: [2]float64{(t + root) / 2, (t - root) / 2}, Real: true}
	if m[1][0] == 0 && m[0][1] == 0 {
		if m[0][0] >= m[1][1] {
			e.Vectors = Identity2()
		} else {
			e.Vectors = Mat2{{0, 1}, {1, 0}}
		}
		return e
	}
	v1 := eigenvector(m, e.Values[0])
	v2 := eigenvector(m, e.Values[1])
	if !usable(v1) || !usable(v2) || math.Abs(r2.Cross(v1, v2)) < 1e-12 {
		e.Vectors = Identity2()
		e.Fallback = true
		return e
	}
	e.Vectors = FromRows(v1, v2)
	return e
}

// EigenSym is Eigen for matrices expected to be symmetric. It logs a warning
// when the computed directions are not orthogonal within 1e-10.
func EigenSym(m Mat2) Eigen2 {
	e := Eigen(m)
	if e.Fallback {
		return e
	}
	if dot := r2.Dot(e.Major(), e.Minor()); math.Abs(dot) > orthoTol {
		ddg.Logger().Warn("eigenvectors not orthogonal", "matrix", m, "dot", dot)
	}
	return e
}

func eigenvector(m Mat2, lambda float64) r2.Vec {
	// Null vectors of the second and first rows of m - λI. The (1,0) form
	// is used unless the (0,1) form is longer, which happens when a10 and
	// λ - a11 both vanish up to rounding.
	v := r2.Vec{X: lambda - m[1][1], Y: m[1][0]}
	if alt := (r2.Vec{X: m[0][1], Y: lambda - m[0][0]}); r2.Norm2(alt) > r2.Norm2(v) {
		v = alt
	}
	n := r2.Norm(v)
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/n, v)
}

func usable(v r2.Vec) bool {
	return v != (r2.Vec{}) && IsFinite(v.X, v.Y)
}
