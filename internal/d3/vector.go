package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// R3 vector helpers missing from gonum's spatial/r3.

func Elem(sides float64) r3.Vec {
	return r3.Vec{
		X: sides,
		Y: sides,
		Z: sides,
	}
}

func EqualWithin(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// FromR2 lifts v into 3D space at height z.
func FromR2(v r2.Vec, z float64) r3.Vec {
	return r3.Vec{
		X: v.X,
		Y: v.Y,
		Z: z,
	}
}

// Orthogonal returns a unit vector perpendicular to n. The choice
// among all perpendicular vectors is arbitrary but deterministic:
// n is crossed with the axis it is least aligned with.
func Orthogonal(n r3.Vec) r3.Vec {
	a := r3.Vec{X: math.Abs(n.X), Y: math.Abs(n.Y), Z: math.Abs(n.Z)}
	axis := r3.Vec{X: 1}
	switch {
	case a.Y <= a.X && a.Y <= a.Z:
		axis = r3.Vec{Y: 1}
	case a.Z <= a.X && a.Z <= a.Y:
		axis = r3.Vec{Z: 1}
	}
	return r3.Unit(r3.Cross(n, axis))
}

type Set []r3.Vec

// Bounds returns the smallest box containing all vectors of the set.
// The set must not be empty.
func (a Set) Bounds() Box {
	b := Box{Min: a[0], Max: a[0]}
	for _, v := range a[1:] {
		b = b.Include(v)
	}
	return b
}
