// Package meshio reads and writes triangle meshes and turns triangle soups
// into indexed meshes by welding coincident vertices.
package meshio

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/ddg"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// Weld builds an indexed mesh from a triangle soup. Vertices closer than tol
// share an index. A zero tol is inferred from the shortest edge of the soup.
// Triangles that collapse after welding are dropped.
func Weld(tris [][3]r3.Vec, tol float64) (*ddg.Mesh, error) {
	if len(tris) == 0 {
		return nil, errors.New("no triangles to weld")
	}
	if tol < 0 {
		return nil, fmt.Errorf("negative vertex tolerance %g", tol)
	}
	minDist2 := math.MaxFloat64
	maxDist2 := 0.0
	for _, tri := range tris {
		for j, vert := range tri {
			side2 := r3.Norm2(r3.Sub(tri[(j+1)%3], vert))
			minDist2 = math.Min(minDist2, side2)
			maxDist2 = math.Max(maxDist2, side2)
		}
	}
	suggested := math.Sqrt(minDist2) / 256
	if tol > math.Sqrt(maxDist2)/2 {
		return nil, fmt.Errorf("vertex tolerance is too large to generate appropriate mesh, suggested tolerance: %g", suggested)
	}
	if tol == 0 {
		tol = suggested
	}

	m := &ddg.Mesh{Triangles: make([][3]int, 0, len(tris))}
	var tree kdtree.Tree
	tol2 := tol * tol
	index := func(v r3.Vec) int {
		q := &weldPoint{p: v}
		if tree.Count > 0 {
			got, dist2 := tree.Nearest(q)
			if dist2 <= tol2 {
				return got.(*weldPoint).index
			}
		}
		q.index = len(m.Vertices)
		m.Vertices = append(m.Vertices, v)
		tree.Insert(q, false)
		return q.index
	}
	dropped := 0
	for _, tri := range tris {
		t := [3]int{index(tri[0]), index(tri[1]), index(tri[2])}
		if t[0] == t[1] || t[1] == t[2] || t[2] == t[0] {
			dropped++
			continue
		}
		m.Triangles = append(m.Triangles, t)
	}
	if dropped > 0 {
		ddg.Logger().Debug("welded triangles collapsed", "dropped", dropped, "tolerance", tol)
	}
	if len(m.Triangles) == 0 {
		return nil, errors.New("all triangles collapsed when welding")
	}
	return m, nil
}

// Soup returns the vertex positions of every triangle of m.
func Soup(m *ddg.Mesh) [][3]r3.Vec {
	tris := make([][3]r3.Vec, len(m.Triangles))
	for i := range m.Triangles {
		tris[i] = m.Triangle(i)
	}
	return tris
}

// weldPoint is a mesh vertex stored in the k-d tree.
type weldPoint struct {
	p     r3.Vec
	index int
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
func (a *weldPoint) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	q := b.(*weldPoint)
	switch d {
	case 0:
		return a.p.X - q.p.X
	case 1:
		return a.p.Y - q.p.Y
	case 2:
		return a.p.Z - q.p.Z
	}
	panic("illegal dimension")
}

// Dims returns the number of dimensions to be considered.
func (a *weldPoint) Dims() int { return 3 }

// Distance returns the squared distance between the receiver and b.
func (a *weldPoint) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.p, b.(*weldPoint).p))
}
