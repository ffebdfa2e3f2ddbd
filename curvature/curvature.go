// Package curvature estimates discrete curvature on triangle meshes with the
// cotangent formulas of Meyer, Desbrun, Schröder and Barr: mean curvature from
// the cotangent Laplacian of vertex positions, Gaussian curvature from the
// angle defect, both normalized by the mixed Voronoi area. A per-vertex 2×2
// curvature tensor gives the principal directions.
package curvature

import (
	"fmt"
	"math"
	"sort"

	"github.com/soypat/ddg"
	"github.com/soypat/ddg/corner"
	"github.com/soypat/ddg/internal/d3"
	"github.com/soypat/ddg/linalg"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Config controls optional parts of the estimate.
type Config struct {
	// Tensor enables fitting the curvature tensor and principal directions.
	Tensor bool
}

// Sample is the curvature estimate at a single vertex.
// Fields other than the accumulators are meaningless when Valid is false.
type Sample struct {
	// Accumulators.
	MeanOp   r3.Vec  // Σ (cot γ + cot δ)·(B − A) over incident corners.
	Area     float64 // Mixed Voronoi area.
	AngleSum float64 // Degrees.

	Valid bool
	// Mean is the unsigned mean curvature |MeanOp|/(4·Area).
	Mean float64
	// SignedMean is positive where the surface bends away from Normal.
	SignedMean float64
	Gaussian   float64
	// K1 >= K2 are the principal curvatures.
	K1, K2 float64
	// Normal is the outward unit normal used as the tangent plane normal.
	Normal r3.Vec

	// Set when Config.Tensor is true and the fit succeeded.
	HasTensor bool
	// T1, T2 span the tangent plane. Tensor is expressed in this basis.
	T1, T2 r3.Vec
	Tensor linalg.Mat2
	// Dir1 and Dir2 are the principal directions of maximum and minimum
	// normal curvature.
	Dir1, Dir2 r3.Vec
}

// Result holds one Sample per mesh vertex.
type Result struct {
	Samples []Sample
	// Blacklist holds sorted indices of vertices excluded because of a
	// degenerate incident triangle or a boundary edge.
	Blacklist []int
}

// Compute estimates curvature at every vertex of m. t must be the corner
// table built from m.
func Compute(m *ddg.Mesh, t *corner.Table, cfg Config) (*Result, error) {
	if t.NumCorners() != 3*len(m.Triangles) {
		return nil, fmt.Errorf("corner table has %d corners, mesh needs %d", t.NumCorners(), 3*len(m.Triangles))
	}
	log := ddg.Logger()
	nv := len(m.Vertices)
	samples := make([]Sample, nv)
	black := make([]bool, nv)

	angles := make([][3]float64, len(m.Triangles))
	degenerate := make([]bool, len(m.Triangles))
	for i, tri := range m.Triangles {
		angles[i] = m.Triangle(i).Angles()
		a := angles[i]
		if a[0] == 0 || a[1] == 0 || a[2] == 0 {
			degenerate[i] = true
			log.Warn("zero-angle triangle", "triangle", i, "vertices", tri)
			black[tri[0]], black[tri[1]], black[tri[2]] = true, true, true
		}
	}

	cot := make(cotCache)
	for c := 0; c < t.NumCorners(); c++ {
		ti := corner.Tri(c)
		if degenerate[ti] {
			continue
		}
		prev, next := t.Prev(c), t.Next(c)
		alpha := angles[ti][corner.Local(c)]
		beta := angles[ti][corner.Local(prev)]
		gamma := angles[ti][corner.Local(next)]
		va, vb, vc := t.Vertex(c), t.Vertex(prev), t.Vertex(next)
		ab := r3.Sub(m.Vertices[vb], m.Vertices[va])
		ac := r3.Sub(m.Vertices[vc], m.Vertices[va])

		s := &samples[va]
		switch {
		case alpha > 90:
			s.Area += m.Triangle(ti).Area() / 2
		case beta > 90 || gamma > 90:
			s.Area += m.Triangle(ti).Area() / 4
		default:
			s.Area += (r3.Norm2(ab)*cot.cot(gamma) + r3.Norm2(ac)*cot.cot(beta)) / 8
		}
		s.AngleSum += alpha

		o := t.Opposite(next)
		if o == corner.None {
			black[va] = true
			continue
		}
		if degenerate[corner.Tri(o)] {
			// Its vertices, va included, are already blacklisted.
			continue
		}
		delta := angles[corner.Tri(o)][corner.Local(o)]
		s.MeanOp = r3.Add(s.MeanOp, r3.Scale(cot.cot(gamma)+cot.cot(delta), ab))
	}

	res := &Result{Samples: samples}
	var normals []r3.Vec
	vcorner := t.VertexCorners()
	for v := range samples {
		if black[v] {
			res.Blacklist = append(res.Blacklist, v)
			continue
		}
		s := &samples[v]
		if vcorner[v] == corner.None || s.Area <= 0 {
			continue
		}
		if normals == nil {
			normals = m.VertexNormals()
		}
		s.finalize(normals[v])
		if cfg.Tensor {
			s.fitTensor(m, t, v, t.Ring(vcorner[v]))
		}
	}
	sort.Ints(res.Blacklist)
	log.Info("curvature computed", "vertices", nv, "blacklisted", len(res.Blacklist))
	return res, nil
}

func (s *Sample) finalize(vertexNormal r3.Vec) {
	s.Valid = true
	s.Gaussian = (2*math.Pi - ddg.DtoR(s.AngleSum)) / s.Area
	opNorm := r3.Norm(s.MeanOp)
	s.Mean = opNorm / (4 * s.Area)
	s.Normal = vertexNormal
	s.SignedMean = s.Mean
	if opNorm > 0 {
		// MeanOp points toward the concave side.
		n := r3.Scale(1/opNorm, s.MeanOp)
		if r3.Dot(n, vertexNormal) > 0 {
			s.SignedMean = -s.Mean
		} else {
			n = r3.Scale(-1, n)
		}
		if opNorm > 1e-12*s.Area {
			s.Normal = n
		}
	}
	disc := math.Sqrt(math.Max(0, s.SignedMean*s.SignedMean-s.Gaussian))
	s.K1 = s.SignedMean + disc
	s.K2 = s.SignedMean - disc
}

// fitTensor fits the curvature tensor at vertex v in a least-squares sense
// to the normal curvature along each one-ring edge.
func (s *Sample) fitTensor(m *ddg.Mesh, t *corner.Table, v int, ring []int) {
	n := s.Normal
	if r3.Norm2(n) == 0 {
		return
	}
	s.T1 = d3.Orthogonal(n)
	s.T2 = r3.Cross(n, s.T1)

	xi := m.Vertices[v]
	neighbors := make([]int, 0, len(ring)+1)
	for _, c := range ring {
		neighbors = append(neighbors, t.Vertex(t.Prev(c)))
	}
	// An open fan has one more neighbor than corners.
	if last := ring[len(ring)-1]; t.Swing(last) == corner.None {
		neighbors = append(neighbors, t.Vertex(t.Next(last)))
	}
	if len(neighbors) < 3 {
		return
	}
	a := mat.NewDense(len(neighbors), 3, nil)
	b := mat.NewVecDense(len(neighbors), nil)
	for i, j := range neighbors {
		e := r3.Sub(m.Vertices[j], xi)
		e2 := r3.Norm2(e)
		// Normal curvature of the circle through xi and xj tangent to the plane.
		kappa := -2 * r3.Dot(n, e) / e2
		d1, d2 := r3.Dot(e, s.T1), r3.Dot(e, s.T2)
		dn := math.Hypot(d1, d2)
		if dn == 0 {
			continue
		}
		d1, d2 = d1/dn, d2/dn
		a.SetRow(i, []float64{d1 * d1, 2 * d1 * d2, d2 * d2})
		b.SetVec(i, kappa)
	}
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		ddg.Logger().Debug("curvature tensor fit failed", "vertex", v, "err", err)
		return
	}
	s.HasTensor = true
	s.Tensor = linalg.Mat2{{x.AtVec(0), x.AtVec(1)}, {x.AtVec(1), x.AtVec(2)}}
	eig := linalg.EigenSym(s.Tensor)
	major, minor := eig.Major(), eig.Minor()
	s.Dir1 = r3.Add(r3.Scale(major.X, s.T1), r3.Scale(major.Y, s.T2))
	s.Dir2 = r3.Add(r3.Scale(minor.X, s.T1), r3.Scale(minor.Y, s.T2))
}

// TotalGaussian returns Σ K·A over valid vertices. On a closed surface
// without blacklisted vertices it equals 2π times the Euler characteristic.
func (r *Result) TotalGaussian() float64 {
	var sum float64
	for _, s := range r.Samples {
		if s.Valid {
			sum += s.Gaussian * s.Area
		}
	}
	return sum
}

// MeanRange returns the smallest and largest unsigned mean curvature over
// valid vertices. ok is false when no vertex is valid.
func (r *Result) MeanRange() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range r.Samples {
		if !s.Valid {
			continue
		}
		ok = true
		lo = math.Min(lo, s.Mean)
		hi = math.Max(hi, s.Mean)
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// cotCache memoizes cotangents by angle in degrees. Regular meshes repeat
// a handful of angles.
type cotCache map[float64]float64

func (cc cotCache) cot(deg float64) float64 {
	if v, ok := cc[deg]; ok {
		return v
	}
	v := 1 / math.Tan(ddg.DtoR(deg))
	cc[deg] = v
	return v
}
