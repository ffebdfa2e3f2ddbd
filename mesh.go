// Package ddg holds the triangle mesh and polyline types shared by the
// analysis packages: corner adjacency, curvature estimation, field
// interpolation, singularity finding, line tracing and silhouettes.
package ddg

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/ddg/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrBadIndex is returned by Mesh.Validate when a triangle references
// a vertex that does not exist.
var ErrBadIndex = errors.New("triangle vertex index out of range")

// Mesh is an indexed triangle mesh. Vertex indices are stable: algorithms
// built over a Mesh address vertices and triangles by their position in
// Vertices and Triangles.
type Mesh struct {
	Vertices  []r3.Vec
	Triangles [][3]int
}

// Validate checks every triangle index is a valid vertex index.
func (m *Mesh) Validate() error {
	nv := len(m.Vertices)
	for i, tri := range m.Triangles {
		for _, v := range tri {
			if v < 0 || v >= nv {
				return fmt.Errorf("triangle %d %v with %d vertices: %w", i, tri, nv, ErrBadIndex)
			}
		}
	}
	return nil
}

// Triangle returns the vertex positions of the ith triangle.
func (m *Mesh) Triangle(i int) Triangle {
	t := m.Triangles[i]
	return Triangle{m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]}
}

// Bounds returns the bounding box of the mesh vertices.
func (m *Mesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}
	return r3.Box(d3.Set(m.Vertices).Bounds())
}

// VertexNormals returns a unit normal per vertex. Each incident face normal
// is weighted by the opening angle the face has at the vertex.
// Vertices with no incident triangles get the zero vector.
func (m *Mesh) VertexNormals() []r3.Vec {
	normals := make([]r3.Vec, len(m.Vertices))
	for i, t := range m.Triangles {
		tri := m.Triangle(i)
		n := tri.Normal()
		angles := tri.Angles()
		for j, v := range t {
			normals[v] = r3.Add(normals[v], r3.Scale(DtoR(angles[j]), n))
		}
	}
	for i, n := range normals {
		if r3.Norm2(n) > 0 {
			normals[i] = r3.Unit(n)
		}
	}
	return normals
}

// Triangle is a triangle in 3D space.
type Triangle [3]r3.Vec

// Angles returns the interior angles of the triangle in degrees.
// Angles[i] is the angle at vertex i. A triangle with coincident or
// collinear vertices has at least one angle exactly zero.
func (t Triangle) Angles() [3]float64 {
	var a [3]float64
	for i := range t {
		e1 := r3.Sub(t[(i+1)%3], t[i])
		e2 := r3.Sub(t[(i+2)%3], t[i])
		a[i] = RtoD(math.Atan2(r3.Norm(r3.Cross(e1, e2)), r3.Dot(e1, e2)))
	}
	return a
}

// Area returns the area of the triangle.
func (t Triangle) Area() float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0])))
}

// Normal returns the unit normal of the triangle given by counter-clockwise
// vertex order. Degenerate triangles return the zero vector.
func (t Triangle) Normal() r3.Vec {
	n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
	if r3.Norm2(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Centroid returns the average of the triangle's vertices.
func (t Triangle) Centroid() r3.Vec {
	return r3.Scale(1./3., r3.Add(r3.Add(t[0], t[1]), t[2]))
}
