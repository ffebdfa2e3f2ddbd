package field

import (
	"github.com/soypat/ddg/linalg"
	"gonum.org/v1/gonum/spatial/r2"
)

// EigenField exposes one family of principal directions of a tensor field as
// a vector field. The vectors have unit length and an arbitrary sign; trace
// them with orientation tracking.
type EigenField struct {
	ip    *Interpolator
	minor bool
}

// MajorEigenField returns the field of eigenvectors of the larger eigenvalue.
func MajorEigenField(ip *Interpolator) EigenField {
	return EigenField{ip: ip}
}

// MinorEigenField returns the field of eigenvectors of the smaller eigenvalue.
func MinorEigenField(ip *Interpolator) EigenField {
	return EigenField{ip: ip, minor: true}
}

// Evaluate returns the unit eigenvector at p. ok is false outside the
// domain, for vector fields and at isotropic points where the tensor has
// no preferred direction. Directions come from the deviator alone; the
// trace shifts both eigenvalues equally.
func (f EigenField) Evaluate(p r2.Vec) (r2.Vec, bool) {
	if !f.ip.IsTensor() {
		return r2.Vec{}, false
	}
	dev, ok := f.ip.Evaluate(p)
	if !ok || dev == (r2.Vec{}) {
		return r2.Vec{}, false
	}
	e := linalg.EigenSym(linalg.Mat2{{dev.X, dev.Y}, {dev.Y, -dev.X}})
	if !e.Real || e.Fallback || e.Values[0] == e.Values[1] {
		return r2.Vec{}, false
	}
	if f.minor {
		return e.Minor(), true
	}
	return e.Major(), true
}
