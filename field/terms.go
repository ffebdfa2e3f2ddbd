package field

import (
	"math"

	"github.com/soypat/ddg"
	"github.com/soypat/ddg/internal/d2"
	"github.com/soypat/ddg/linalg"
	"gonum.org/v1/gonum/spatial/r2"
)

// TermKind selects the flow pattern of a vector Term.
type TermKind int

const (
	Uniform TermKind = iota // Constant flow along Direction.
	Source                  // Radial outflow.
	Sink                    // Radial inflow.
	Vortex                  // Counter-clockwise rotation.
	Saddle                  // Outflow along X, inflow along Y.
)

func (k TermKind) String() string {
	switch k {
	case Uniform:
		return "uniform"
	case Source:
		return "source"
	case Sink:
		return "sink"
	case Vortex:
		return "vortex"
	case Saddle:
		return "saddle"
	}
	return "unknown"
}

// Term is a linear vector field pattern. Every kind is affine in position
// so a sum of terms is reproduced exactly by the piecewise linear fit and
// its singularities sit exactly at the term centers.
type Term struct {
	Kind     TermKind
	Center   r2.Vec
	Strength float64
	// Direction of Uniform terms.
	Direction r2.Vec
}

// At evaluates the term at p.
func (t Term) At(p r2.Vec) r2.Vec {
	d := r2.Sub(p, t.Center)
	var v r2.Vec
	switch t.Kind {
	case Uniform:
		v = t.Direction
	case Source:
		v = d
	case Sink:
		v = r2.Scale(-1, d)
	case Vortex:
		v = r2.Vec{X: -d.Y, Y: d.X}
	case Saddle:
		v = r2.Vec{X: d.X, Y: -d.Y}
	default:
		panic("field: unknown term kind " + t.Kind.String())
	}
	return r2.Scale(t.Strength, v)
}

// TensorKind selects the pattern of a TensorTerm.
type TensorKind int

const (
	TensorUniform   TensorKind = iota // Constant major direction at Angle.
	TensorWedge                       // Degenerate point of index +1/2.
	TensorTrisector                   // Degenerate point of index -1/2.
)

func (k TensorKind) String() string {
	switch k {
	case TensorUniform:
		return "uniform"
	case TensorWedge:
		return "wedge"
	case TensorTrisector:
		return "trisector"
	}
	return "unknown"
}

// TensorTerm is a traceless symmetric tensor field pattern, affine in
// position.
type TensorTerm struct {
	Kind     TensorKind
	Center   r2.Vec
	Strength float64
	// Angle in radians of the major eigenvector of TensorUniform terms.
	Angle float64
}

// At evaluates the term at p.
func (t TensorTerm) At(p r2.Vec) linalg.Mat2 {
	d := r2.Sub(p, t.Center)
	var a, b float64
	switch t.Kind {
	case TensorUniform:
		a, b = math.Cos(2*t.Angle), math.Sin(2*t.Angle)
	case TensorWedge:
		a, b = d.X, d.Y
	case TensorTrisector:
		a, b = d.X, -d.Y
	default:
		panic("field: unknown tensor term kind " + t.Kind.String())
	}
	return linalg.Mat2{{a, b}, {b, -a}}.Scale(t.Strength)
}

// SampleVector evaluates the sum of terms at every vertex of m.
func SampleVector(m *ddg.Mesh, terms ...Term) []r2.Vec {
	values := make([]r2.Vec, len(m.Vertices))
	for i, v := range m.Vertices {
		p := d2.Lower(v)
		for _, t := range terms {
			values[i] = r2.Add(values[i], t.At(p))
		}
	}
	return values
}

// SampleTensor evaluates the sum of terms at every vertex of m.
func SampleTensor(m *ddg.Mesh, terms ...TensorTerm) []linalg.Mat2 {
	values := make([]linalg.Mat2, len(m.Vertices))
	for i, v := range m.Vertices {
		p := d2.Lower(v)
		for _, t := range terms {
			values[i] = values[i].Add(t.At(p))
		}
	}
	return values
}
