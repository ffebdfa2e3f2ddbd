// Package silhouette extracts the outline of a triangle mesh seen from a
// viewpoint, either along mesh edges between front and back facing
// triangles or across triangles where the interpolated vertex visibility
// changes sign.
package silhouette

import (
	"github.com/soypat/ddg"
	"github.com/soypat/ddg/corner"
	"gonum.org/v1/gonum/spatial/r3"
)

// Visible reports which triangles of m face view. A triangle is visible
// when (centroid - view)·normal < 0. Triangles seen exactly edge-on count
// as hidden.
func Visible(m *ddg.Mesh, view r3.Vec) []bool {
	vis := make([]bool, len(m.Triangles))
	for i := range m.Triangles {
		tri := m.Triangle(i)
		vis[i] = r3.Dot(r3.Sub(tri.Centroid(), view), tri.Normal()) < 0
	}
	return vis
}

// FaceEdges returns the corners whose facing edge is on the face based
// silhouette: the corner's triangle is visible and the triangle across the
// edge is hidden or missing.
func FaceEdges(m *ddg.Mesh, t *corner.Table, view r3.Vec) []int {
	vis := Visible(m, view)
	var edges []int
	for c := 0; c < t.NumCorners(); c++ {
		if !vis[corner.Tri(c)] {
			continue
		}
		if o := t.Opposite(c); o == corner.None || !vis[corner.Tri(o)] {
			edges = append(edges, c)
		}
	}
	return edges
}

// FaceBased returns the silhouette made of mesh edges. Each edge runs from
// the vertex of Next(c) to the vertex of Prev(c) of its corner c, and edges
// sharing a mesh vertex share a polyline vertex.
func FaceBased(m *ddg.Mesh, t *corner.Table, view r3.Vec) ddg.Polyline {
	var line ddg.Polyline
	index := make(map[int]int)
	vertex := func(v int) int {
		if i, ok := index[v]; ok {
			return i
		}
		index[v] = len(line.Vertices)
		line.Vertices = append(line.Vertices, m.Vertices[v])
		return index[v]
	}
	for _, c := range FaceEdges(m, t, view) {
		a := vertex(t.Vertex(t.Next(c)))
		b := vertex(t.Vertex(t.Prev(c)))
		line.Segments = append(line.Segments, [2]int{a, b})
	}
	return line
}

// VertexBased returns the zero set of the linearly interpolated vertex
// visibility (v - view)·n, with n the angle weighted vertex normal. A
// segment crosses every triangle whose vertices do not all share a sign.
// Crossings on a shared edge are computed once so the segments form
// connected polylines.
func VertexBased(m *ddg.Mesh, t *corner.Table, view r3.Vec) ddg.Polyline {
	normals := m.VertexNormals()
	f := make([]float64, len(m.Vertices))
	for i, v := range m.Vertices {
		f[i] = r3.Dot(r3.Sub(v, view), normals[i])
	}
	var line ddg.Polyline
	crossings := make(map[[2]int]int)
	crossing := func(a, b int) int {
		if a > b {
			a, b = b, a
		}
		key := [2]int{a, b}
		if i, ok := crossings[key]; ok {
			return i
		}
		i := len(line.Vertices)
		line.Vertices = append(line.Vertices, Interpolate(m.Vertices[a], m.Vertices[b], f[a], f[b]))
		crossings[key] = i
		return i
	}
	visible := func(v int) bool { return f[v] < 0 }
	for c := 0; c < t.NumCorners(); c++ {
		va, vn, vp := t.Vertex(c), t.Vertex(t.Next(c)), t.Vertex(t.Prev(c))
		s := visible(va)
		if s == visible(vn) || s == visible(vp) {
			continue
		}
		// va is the lone vertex of its triangle.
		i, j := crossing(va, vn), crossing(va, vp)
		if line.Vertices[i] == line.Vertices[j] {
			continue
		}
		line.Segments = append(line.Segments, [2]int{i, j})
	}
	return line
}

// Interpolate returns the zero crossing of the linear function with value
// a at p1 and b at p2. Endpoints with a zero value are returned unchanged.
func Interpolate(p1, p2 r3.Vec, a, b float64) r3.Vec {
	switch {
	case a == 0:
		return p1
	case b == 0:
		return p2
	}
	return r3.Add(p1, r3.Scale(a/(a-b), r3.Sub(p2, p1)))
}
