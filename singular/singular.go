// Package singular locates and classifies the zeros of piecewise linear
// vector fields and the degenerate points of piecewise linear tensor fields.
package singular

import (
	"math"
	"sort"

	"github.com/soypat/ddg"
	"github.com/soypat/ddg/field"
	"github.com/soypat/ddg/internal/d2"
	"github.com/soypat/ddg/internal/d3"
	"github.com/soypat/ddg/linalg"
	"gonum.org/v1/gonum/spatial/r2"
)

// Kind classifies a singularity.
type Kind int

const (
	Unknown Kind = iota
	// Vector field zeros.
	Source
	Sink
	Saddle
	Center
	// Tensor field degenerate points.
	Wedge
	Trisector
	HigherOrder
)

func (k Kind) String() string {
	switch k {
	case Source:
		return "source"
	case Sink:
		return "sink"
	case Saddle:
		return "saddle"
	case Center:
		return "center"
	case Wedge:
		return "wedge"
	case Trisector:
		return "trisector"
	case HigherOrder:
		return "higher-order"
	}
	return "unknown"
}

// DedupeTol is the distance under which roots found in neighbouring
// triangles are the same singularity.
const DedupeTol = 1e-7

// centerTol scales ‖A‖ to decide the real part of complex eigenvalues
// vanishes.
const centerTol = 1e-10

// higherOrderTol scales ‖A‖² to decide a tensor Jacobian is singular.
const higherOrderTol = 1e-10

// Singularity is an isolated zero of a vector field or degenerate point
// of a tensor field.
type Singularity struct {
	Point    r2.Vec
	Triangle int
	Kind     Kind
	// Jacobian of the field (or of the tensor deviator) in Triangle.
	Jacobian linalg.Mat2
	Eigen    linalg.Eigen2
}

// Finder finds the singularities of an interpolated field. The result is
// computed on the first call and cached; the first call must not race with
// another.
type Finder struct {
	ip     *field.Interpolator
	found  bool
	points []Singularity
}

// NewFinder returns a Finder over ip.
func NewFinder(ip *field.Interpolator) *Finder {
	return &Finder{ip: ip}
}

// Find returns the singularities of the field ordered by triangle.
func (f *Finder) Find() []Singularity {
	if f.found {
		return f.points
	}
	ip := f.ip
	for tri := 0; tri < ip.NumTriangles(); tri++ {
		A, B, ok := ip.Linear(tri)
		if !ok || A.Det() == 0 {
			continue
		}
		sol := linalg.Solve2(A, [2]float64{-B.X, -B.Y})
		p := r2.Vec{X: sol[0], Y: sol[1]}
		if !d2.IsFinite(p) {
			continue
		}
		tv := ip.Triangle(tri)
		if !field.InTriangle(field.Barycentric(tv[0], tv[1], tv[2], p), field.InsideTol) {
			continue
		}
		if f.seen(p) {
			continue
		}
		s := Singularity{Point: p, Triangle: tri, Jacobian: A, Eigen: linalg.Eigen(A)}
		if ip.IsTensor() {
			s.Kind = classifyTensor(A)
		} else {
			s.Kind = classifyVector(s.Eigen, A.Norm())
		}
		f.points = append(f.points, s)
	}
	f.found = true
	ddg.Logger().Info("singularities found", "count", len(f.points), "tensor", ip.IsTensor())
	return f.points
}

func (f *Finder) seen(p r2.Vec) bool {
	for _, s := range f.points {
		if d2.EqualWithin(s.Point, p, DedupeTol) {
			return true
		}
	}
	return false
}

func classifyVector(e linalg.Eigen2, norm float64) Kind {
	l1, l2 := e.Values[0], e.Values[1]
	if !e.Real {
		// Both values hold the real part.
		switch {
		case math.Abs(l1) <= centerTol*norm:
			return Center
		case l1 < 0:
			return Sink
		}
		return Source
	}
	switch {
	case l1 < 0 && l2 < 0:
		return Sink
	case l1 > 0 && l2 > 0:
		return Source
	case l1 > 0 && l2 < 0:
		return Saddle
	}
	return Unknown
}

func classifyTensor(A linalg.Mat2) Kind {
	det := A.Det()
	norm := A.Norm()
	switch {
	case math.Abs(det) <= higherOrderTol*norm*norm:
		return HigherOrder
	case det > 0:
		return Wedge
	}
	return Trisector
}

// Count returns the number of singularities of kind k.
func (f *Finder) Count(k Kind) int {
	n := 0
	for _, s := range f.Find() {
		if s.Kind == k {
			n++
		}
	}
	return n
}

// Saddles returns the saddle singularities.
func (f *Finder) Saddles() []Singularity {
	var saddles []Singularity
	for _, s := range f.Find() {
		if s.Kind == Saddle {
			saddles = append(saddles, s)
		}
	}
	return saddles
}

// Points returns the singularities as classified points on the z=0 plane,
// sorted by category then position.
func (f *Finder) Points() []ddg.ClassifiedPoint {
	sing := f.Find()
	pts := make([]ddg.ClassifiedPoint, len(sing))
	for i, s := range sing {
		pts[i] = ddg.ClassifiedPoint{Position: d3.FromR2(s.Point, 0), Category: s.Kind.String()}
	}
	sort.SliceStable(pts, func(i, j int) bool {
		a, b := pts[i], pts[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Position.X != b.Position.X {
			return a.Position.X < b.Position.X
		}
		return a.Position.Y < b.Position.Y
	})
	return pts
}
