// Package field interpolates vector and symmetric tensor samples given at
// mesh vertices. The domain is the XY projection of the mesh and each
// triangle carries its own affine fit, so the interpolated field is
// continuous and piecewise linear.
package field

import (
	"errors"
	"fmt"

	"github.com/dhconnelly/rtreego"
	"github.com/soypat/ddg"
	"github.com/soypat/ddg/internal/d2"
	"github.com/soypat/ddg/linalg"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrFieldSize is returned when the number of samples differs from the
// number of mesh vertices.
var ErrFieldSize = errors.New("field sample count does not match mesh vertex count")

// affine is the fit value = X·x + Y·y + C of one field component.
type affine struct {
	X, Y, C float64
}

func (a affine) at(p r2.Vec) float64 { return a.X*p.X + a.Y*p.Y + a.C }

// Interpolator evaluates a field sampled at mesh vertices anywhere inside
// the mesh. It is immutable and safe for concurrent use.
type Interpolator struct {
	mesh   *ddg.Mesh
	tensor bool
	// Per triangle: vector X, Y components, or tensor deviator a, b and trace.
	fits    [][3]affine
	valid   []bool
	invalid int
	tree    *rtreego.Rtree
	bounds  d2.Box
	pad     float64 // R-tree box margin.
}

// NewVector fits a piecewise linear vector field to one sample per vertex.
func NewVector(m *ddg.Mesh, values []r2.Vec) (*Interpolator, error) {
	if len(values) != len(m.Vertices) {
		return nil, fmt.Errorf("%d vectors for %d vertices: %w", len(values), len(m.Vertices), ErrFieldSize)
	}
	return newInterpolator(m, func(v int) [3]float64 {
		return [3]float64{values[v].X, values[v].Y, 0}
	})
}

// NewTensor fits a piecewise linear symmetric tensor field to one sample per
// vertex. The fit is done on the deviator components a = (t00-t11)/2 and
// b = (t01+t10)/2 and on the trace, so any asymmetry is averaged out.
func NewTensor(m *ddg.Mesh, values []linalg.Mat2) (*Interpolator, error) {
	if len(values) != len(m.Vertices) {
		return nil, fmt.Errorf("%d tensors for %d vertices: %w", len(values), len(m.Vertices), ErrFieldSize)
	}
	ip, err := newInterpolator(m, func(v int) [3]float64 {
		t := values[v]
		return [3]float64{(t[0][0] - t[1][1]) / 2, (t[0][1] + t[1][0]) / 2, t.Trace()}
	})
	if ip != nil {
		ip.tensor = true
	}
	return ip, err
}

func newInterpolator(m *ddg.Mesh, sample func(v int) [3]float64) (*Interpolator, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if len(m.Triangles) == 0 {
		return nil, errors.New("field needs at least one triangle")
	}
	ip := &Interpolator{
		mesh:  m,
		fits:  make([][3]affine, len(m.Triangles)),
		valid: make([]bool, len(m.Triangles)),
	}
	log := ddg.Logger()
	for i, tri := range m.Triangles {
		var a [3][3]float64
		var f [3][3]float64 // f[component][vertex]
		for k, v := range tri {
			p := d2.Lower(m.Vertices[v])
			a[k] = [3]float64{p.X, p.Y, 1}
			s := sample(v)
			for comp := range s {
				f[comp][k] = s[comp]
			}
		}
		ok := true
		for comp := range f {
			c := linalg.Solve3(a, f[comp])
			if !linalg.IsFinite(c[:]...) {
				ok = false
				break
			}
			ip.fits[i][comp] = affine{X: c[0], Y: c[1], C: c[2]}
		}
		ip.valid[i] = ok
		if !ok {
			ip.invalid++
			log.Debug("singular field element", "triangle", i, "vertices", tri)
		}
	}
	if ip.invalid > 0 {
		log.Info("field elements invalid", "count", ip.invalid, "triangles", len(m.Triangles))
	}
	ip.buildIndex()
	return ip, nil
}

// Mesh returns the mesh the field was sampled on.
func (ip *Interpolator) Mesh() *ddg.Mesh { return ip.mesh }

// IsTensor reports whether the field was built by NewTensor.
func (ip *Interpolator) IsTensor() bool { return ip.tensor }

// NumTriangles returns the number of field elements.
func (ip *Interpolator) NumTriangles() int { return len(ip.fits) }

// Valid reports whether triangle tri has a finite affine fit.
func (ip *Interpolator) Valid(tri int) bool { return ip.valid[tri] }

// InvalidCount returns the number of triangles whose fit was singular,
// typically triangles that collapse in the XY projection.
func (ip *Interpolator) InvalidCount() int { return ip.invalid }

// Bounds returns the XY bounding box of the domain.
func (ip *Interpolator) Bounds() r2.Box { return r2.Box(ip.bounds) }

// Triangle returns the projected vertices of triangle tri.
func (ip *Interpolator) Triangle(tri int) [3]r2.Vec {
	t := ip.mesh.Triangles[tri]
	return [3]r2.Vec{
		d2.Lower(ip.mesh.Vertices[t[0]]),
		d2.Lower(ip.mesh.Vertices[t[1]]),
		d2.Lower(ip.mesh.Vertices[t[2]]),
	}
}

// Linear returns the affine map value(p) = A·p + B of triangle tri.
// For tensor fields the value is the deviator (a, b). ok is false for
// invalid triangles.
func (ip *Interpolator) Linear(tri int) (A linalg.Mat2, B r2.Vec, ok bool) {
	if !ip.valid[tri] {
		return A, B, false
	}
	f := ip.fits[tri]
	A = linalg.Mat2{{f[0].X, f[0].Y}, {f[1].X, f[1].Y}}
	B = r2.Vec{X: f[0].C, Y: f[1].C}
	return A, B, true
}

// Evaluate returns the field at p from the first valid triangle containing p.
// Tensor fields return their deviator (a, b). ok is false outside the domain.
func (ip *Interpolator) Evaluate(p r2.Vec) (r2.Vec, bool) {
	tri, ok := ip.locate(p, true)
	if !ok {
		return r2.Vec{}, false
	}
	f := ip.fits[tri]
	return r2.Vec{X: f[0].at(p), Y: f[1].at(p)}, true
}

// EvaluateTensor returns the symmetric tensor at p. ok is false outside the
// domain or when the field is not a tensor field.
func (ip *Interpolator) EvaluateTensor(p r2.Vec) (linalg.Mat2, bool) {
	if !ip.tensor {
		return linalg.Mat2{}, false
	}
	tri, ok := ip.locate(p, true)
	if !ok {
		return linalg.Mat2{}, false
	}
	f := ip.fits[tri]
	a, b, half := f[0].at(p), f[1].at(p), f[2].at(p)/2
	return linalg.Mat2{{half + a, b}, {b, half - a}}, true
}
