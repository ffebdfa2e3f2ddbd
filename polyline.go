package ddg

import "gonum.org/v1/gonum/spatial/r3"

// Polyline is a set of vertices joined by segments. Segments index into
// Vertices. Planar results (traces) are stored with Z = 0.
type Polyline struct {
	Vertices []r3.Vec
	Segments [][2]int
}

// Append adds v to the polyline, joined to the last vertex if there is one.
func (p *Polyline) Append(v r3.Vec) {
	p.Vertices = append(p.Vertices, v)
	if n := len(p.Vertices); n > 1 {
		p.Segments = append(p.Segments, [2]int{n - 2, n - 1})
	}
}

// Segment returns the endpoints of the ith segment.
func (p *Polyline) Segment(i int) (a, b r3.Vec) {
	s := p.Segments[i]
	return p.Vertices[s[0]], p.Vertices[s[1]]
}

// Len returns the number of vertices.
func (p *Polyline) Len() int { return len(p.Vertices) }

// ClassifiedPoint is a point tagged with a category name, such as
// the kind of a field singularity.
type ClassifiedPoint struct {
	Position r3.Vec
	Category string
}
