package field

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/soypat/ddg/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// InsideTol is the barycentric slack for point-in-triangle tests. Points on
// shared edges belong to both triangles.
const InsideTol = 1e-9

// R-tree node fan-out.
const (
	minChildren = 8
	maxChildren = 16
)

// element is a triangle's bounding rectangle stored in the R-tree.
type element struct {
	tri  int
	rect *rtreego.Rect
}

var _ rtreego.Spatial = (*element)(nil)

func (e *element) Bounds() *rtreego.Rect { return e.rect }

func (ip *Interpolator) buildIndex() {
	m := ip.mesh
	ip.bounds = d2.Box{Min: d2.Lower(m.Vertices[m.Triangles[0][0]])}
	ip.bounds.Max = ip.bounds.Min
	for i := range m.Triangles {
		for _, p := range ip.Triangle(i) {
			ip.bounds = ip.bounds.Include(p)
		}
	}
	ip.pad = padFor(ip.bounds.Min, ip.bounds.Max)
	ip.tree = rtreego.NewTree(2, minChildren, maxChildren)
	for i := range m.Triangles {
		tri := ip.Triangle(i)
		box := d2.Set(tri[:]).Bounds().Enlarge(ip.pad)
		if !d2.IsFinite(box.Min) || !d2.IsFinite(box.Max) {
			continue
		}
		ip.tree.Insert(&element{tri: i, rect: mustRect(box)})
	}
}

// mustRect converts box to an R-tree rectangle. Boxes are padded so both
// sides are positive.
func mustRect(box d2.Box) *rtreego.Rect {
	size := box.Size()
	r, err := rtreego.NewRect(rtreego.Point{box.Min.X, box.Min.Y}, []float64{size.X, size.Y})
	if err != nil {
		panic(err)
	}
	return r
}

// padFor returns a box margin that survives rounding at the magnitude of vs.
func padFor(vs ...r2.Vec) float64 {
	scale := 1.0
	for _, v := range vs {
		scale = math.Max(scale, math.Max(math.Abs(v.X), math.Abs(v.Y)))
	}
	return InsideTol * scale
}

// candidates returns the indices of triangles whose bounding box holds p,
// in ascending order.
func (ip *Interpolator) candidates(p r2.Vec) []int {
	if !d2.IsFinite(p) {
		return nil
	}
	q := mustRect(d2.Box{Min: p, Max: p}.Enlarge(math.Max(ip.pad, padFor(p))))
	hits := ip.tree.SearchIntersect(q)
	tris := make([]int, len(hits))
	for i, h := range hits {
		tris[i] = h.(*element).tri
	}
	sort.Ints(tris)
	return tris
}

// Locate returns the lowest-index triangle containing p.
func (ip *Interpolator) Locate(p r2.Vec) (tri int, ok bool) {
	return ip.locate(p, false)
}

func (ip *Interpolator) locate(p r2.Vec, validOnly bool) (int, bool) {
	for _, tri := range ip.candidates(p) {
		if validOnly && !ip.valid[tri] {
			continue
		}
		t := ip.Triangle(tri)
		if InTriangle(Barycentric(t[0], t[1], t[2], p), InsideTol) {
			return tri, true
		}
	}
	return -1, false
}

// Barycentric returns the barycentric coordinates of p with respect to the
// triangle abc. Degenerate triangles yield non-finite coordinates.
func Barycentric(a, b, c, p r2.Vec) [3]float64 {
	v0, v1, v2 := r2.Sub(b, a), r2.Sub(c, a), r2.Sub(p, a)
	den := r2.Cross(v0, v1)
	l1 := r2.Cross(v2, v1) / den
	l2 := r2.Cross(v0, v2) / den
	return [3]float64{1 - l1 - l2, l1, l2}
}

// InTriangle reports whether barycentric coordinates lie inside the
// triangle within tol. Non-finite coordinates are never inside.
func InTriangle(bary [3]float64, tol float64) bool {
	return bary[0] >= -tol && bary[1] >= -tol && bary[2] >= -tol
}
