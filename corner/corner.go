// Package corner implements the corner table, an adjacency structure for
// triangle meshes. Each triangle owns three corners, one per vertex. A corner
// knows the two other corners of its triangle and the corner facing it across
// the edge opposite its vertex in the neighbouring triangle.
//
// Corners are addressed by integer index: corner c belongs to triangle c/3
// and pins that triangle's vertex c%3.
package corner

import (
	"errors"
	"fmt"
	"sort"

	"github.com/soypat/ddg"
)

// None is the opposite of a corner on a boundary edge.
const None = -1

var (
	// ErrNonManifold is returned when more than two triangles share an edge.
	ErrNonManifold = errors.New("non-manifold edge")
	// ErrOrientation is returned when two triangles sharing an edge traverse
	// it in the same direction.
	ErrOrientation = errors.New("inconsistent triangle orientation")
	// ErrDegenerateTriangle is returned for triangles that repeat a vertex index.
	ErrDegenerateTriangle = errors.New("triangle repeats a vertex")
)

// Table is the corner table of a triangle mesh. It is immutable once built;
// a change in the mesh connectivity requires a new Table.
type Table struct {
	vertex   []int // mesh vertex pinned by each corner.
	opposite []int
	nverts   int
	nedges   int
	npairs   int
}

// Build constructs the corner table of m and resolves opposite corners by
// sorting corners on the undirected edge they face.
func Build(m *ddg.Mesh) (*Table, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	n := 3 * len(m.Triangles)
	t := &Table{
		vertex:   make([]int, n),
		opposite: make([]int, n),
		nverts:   len(m.Vertices),
	}
	for i, tri := range m.Triangles {
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			return nil, fmt.Errorf("triangle %d %v: %w", i, tri, ErrDegenerateTriangle)
		}
		copy(t.vertex[3*i:3*i+3], tri[:])
	}

	keys := make([]edgeKey, n)
	for c := range keys {
		keys[c] = edgeKey{edge: t.edge(c), c: c}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	for i := 0; i < n; {
		j := i + 1
		for j < n && keys[j].edge == keys[i].edge {
			j++
		}
		switch j - i {
		case 1:
			t.opposite[keys[i].c] = None
		case 2:
			a, b := keys[i].c, keys[i+1].c
			if t.Vertex(t.Next(a)) != t.Vertex(t.Prev(b)) {
				return nil, fmt.Errorf("edge %v of triangles %d and %d: %w", keys[i].edge, Tri(a), Tri(b), ErrOrientation)
			}
			t.opposite[a] = b
			t.opposite[b] = a
			t.npairs++
		default:
			return nil, fmt.Errorf("edge %v shared by %d triangles: %w", keys[i].edge, j-i, ErrNonManifold)
		}
		t.nedges++
		i = j
	}
	return t, nil
}

type edgeKey struct {
	edge [2]int // lower vertex index first.
	c    int
}

func (a edgeKey) less(b edgeKey) bool {
	if a.edge[0] != b.edge[0] {
		return a.edge[0] < b.edge[0]
	}
	if a.edge[1] != b.edge[1] {
		return a.edge[1] < b.edge[1]
	}
	return a.c < b.c
}

// edge returns the undirected edge facing corner c, lower index first.
func (t *Table) edge(c int) [2]int {
	a, b := t.Vertex(t.Prev(c)), t.Vertex(t.Next(c))
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// NumCorners returns the number of corners, three per triangle.
func (t *Table) NumCorners() int { return len(t.vertex) }

// NumEdges returns the number of distinct undirected edges.
func (t *Table) NumEdges() int { return t.nedges }

// NumPairs returns the number of edges shared by two triangles.
func (t *Table) NumPairs() int { return t.npairs }

// Tri returns the triangle owning corner c.
func Tri(c int) int { return c / 3 }

// Local returns the index of corner c within its triangle.
func Local(c int) int { return c % 3 }

// Tri returns the triangle owning corner c.
func (t *Table) Tri(c int) int { return Tri(c) }

// Vertex returns the mesh vertex pinned by corner c.
func (t *Table) Vertex(c int) int { return t.vertex[c] }

// Next returns the next corner in c's triangle.
func (t *Table) Next(c int) int {
	if c%3 == 2 {
		return c - 2
	}
	return c + 1
}

// Prev returns the previous corner in c's triangle.
func (t *Table) Prev(c int) int {
	if c%3 == 0 {
		return c + 2
	}
	return c - 1
}

// Opposite returns the corner facing c across the edge opposite c's vertex,
// or None if that edge is on the boundary.
func (t *Table) Opposite(c int) int { return t.opposite[c] }

// IsBoundary reports whether the edge facing c belongs to a single triangle.
func (t *Table) IsBoundary(c int) bool { return t.opposite[c] == None }

// Swing returns the next corner around c's vertex, or None when
// the walk crosses the boundary.
func (t *Table) Swing(c int) int {
	o := t.opposite[t.Next(c)]
	if o == None {
		return None
	}
	return t.Next(o)
}

// Unswing walks around c's vertex in the direction opposite Swing.
func (t *Table) Unswing(c int) int {
	o := t.opposite[t.Prev(c)]
	if o == None {
		return None
	}
	return t.Prev(o)
}

// Ring returns every corner pinning the same vertex as c. The corners are
// ordered by Swing. For vertices on the boundary the ring starts at the
// corner whose Unswing is None.
func (t *Table) Ring(c int) []int {
	ring := []int{c}
	for s := t.Swing(c); s != c; s = t.Swing(s) {
		if s == None {
			// Open fan: collect the other side and put it first.
			var back []int
			for u := t.Unswing(c); u != None; u = t.Unswing(u) {
				back = append(back, u)
			}
			for i, j := 0, len(back)-1; i < j; i, j = i+1, j-1 {
				back[i], back[j] = back[j], back[i]
			}
			return append(back, ring...)
		}
		ring = append(ring, s)
	}
	return ring
}

// VertexCorners returns one corner per mesh vertex, None for vertices
// not referenced by any triangle.
func (t *Table) VertexCorners() []int {
	vc := make([]int, t.nverts)
	for i := range vc {
		vc[i] = None
	}
	for c, v := range t.vertex {
		if vc[v] == None {
			vc[v] = c
		}
	}
	return vc
}

// BoundaryCorners returns the corners facing boundary edges.
func (t *Table) BoundaryCorners() []int {
	var bc []int
	for c, o := range t.opposite {
		if o == None {
			bc = append(bc, c)
		}
	}
	return bc
}
