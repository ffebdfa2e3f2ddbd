package d2

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// R2 vector helpers missing from gonum's spatial/r2.

// Lower drops the Z component of v. Fields on a mesh live in
// the XY parametrization of its vertices.
func Lower(v r3.Vec) r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

func EqualWithin(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r2.Vec) r2.Vec {
	return r2.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)}
}

// IsFinite reports whether neither component is NaN or infinite.
func IsFinite(a r2.Vec) bool {
	return !math.IsNaN(a.X) && !math.IsInf(a.X, 0) &&
		!math.IsNaN(a.Y) && !math.IsInf(a.Y, 0)
}

type Set []r2.Vec

// Bounds returns the smallest box containing all vectors of the set.
// The set must not be empty.
func (a Set) Bounds() Box {
	b := Box{Min: a[0], Max: a[0]}
	for _, v := range a[1:] {
		b = b.Include(v)
	}
	return b
}
