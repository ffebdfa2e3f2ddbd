// Package shape builds simple indexed triangle meshes: platonic and
// subdivided spheres for curvature and silhouette work and planar grids
// to sample fields on.
package shape

import (
	"math"

	"github.com/soypat/ddg"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const phi = 1.618033988749894848204586834365638117720309179805762862135

// Icosahedron returns a regular icosahedron centered at the origin with its
// vertices at distance radius. Faces are counter-clockwise seen from outside.
func Icosahedron(radius float64) (*ddg.Mesh, error) {
	if radius <= 0 {
		return nil, ddg.ErrMsg("radius must be positive, got %g", radius)
	}
	verts := []r3.Vec{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	for i := range verts {
		verts[i] = r3.Scale(radius, r3.Unit(verts[i]))
	}
	m := &ddg.Mesh{
		Vertices: verts,
		Triangles: [][3]int{
			{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
			{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
			{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
			{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
		},
	}
	orientOutward(m)
	return m, nil
}

// Icosphere returns an icosahedron whose faces have been split in four
// subdivisions times, with every new vertex pushed out to the sphere of
// the given radius.
func Icosphere(radius float64, subdivisions int) (*ddg.Mesh, error) {
	if subdivisions < 0 {
		return nil, ddg.ErrMsg("negative subdivisions %d", subdivisions)
	}
	m, err := Icosahedron(radius)
	if err != nil {
		return nil, err
	}
	for s := 0; s < subdivisions; s++ {
		// Midpoint vertex cache keyed by edge with lower index first.
		mid := make(map[[2]int]int, 3*len(m.Triangles)/2)
		midpoint := func(a, b int) int {
			edge := [2]int{a, b}
			if edge[0] > edge[1] {
				edge[0], edge[1] = edge[1], edge[0]
			}
			if idx, ok := mid[edge]; ok {
				return idx
			}
			v := r3.Scale(radius, r3.Unit(r3.Add(m.Vertices[a], m.Vertices[b])))
			m.Vertices = append(m.Vertices, v)
			mid[edge] = len(m.Vertices) - 1
			return mid[edge]
		}
		tris := make([][3]int, 0, 4*len(m.Triangles))
		for _, t := range m.Triangles {
			ab := midpoint(t[0], t[1])
			bc := midpoint(t[1], t[2])
			ca := midpoint(t[2], t[0])
			tris = append(tris,
				[3]int{t[0], ab, ca},
				[3]int{t[1], bc, ab},
				[3]int{t[2], ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		m.Triangles = tris
	}
	return m, nil
}

// Tube returns an open cylinder of the given radius around the Z axis with
// around vertices per ring and rings+1 rings spaced height/rings apart.
// Every other ring is rotated half a step so triangles are close to
// equilateral. Faces point away from the axis.
func Tube(radius, height float64, around, rings int) (*ddg.Mesh, error) {
	if radius <= 0 || height <= 0 {
		return nil, ddg.ErrMsg("radius and height must be positive, got %g, %g", radius, height)
	}
	if around < 3 || rings < 1 {
		return nil, ddg.ErrMsg("need at least 3 vertices around and one ring, got %d, %d", around, rings)
	}
	m := &ddg.Mesh{
		Vertices:  make([]r3.Vec, 0, around*(rings+1)),
		Triangles: make([][3]int, 0, 2*around*rings),
	}
	step := 2 * math.Pi / float64(around)
	for j := 0; j <= rings; j++ {
		offset := 0.5 * step * float64(j%2)
		z := height * float64(j) / float64(rings)
		for i := 0; i < around; i++ {
			theta := float64(i)*step + offset
			m.Vertices = append(m.Vertices, r3.Vec{X: radius * math.Cos(theta), Y: radius * math.Sin(theta), Z: z})
		}
	}
	idx := func(i, j int) int { return (i+around)%around + j*around }
	for j := 0; j < rings; j++ {
		for i := 0; i < around; i++ {
			if j%2 == 0 {
				// Upper ring is shifted forward half a step.
				m.Triangles = append(m.Triangles,
					[3]int{idx(i, j), idx(i+1, j), idx(i, j+1)},
					[3]int{idx(i+1, j), idx(i+1, j+1), idx(i, j+1)},
				)
			} else {
				// Lower ring is the shifted one.
				m.Triangles = append(m.Triangles,
					[3]int{idx(i, j), idx(i+1, j), idx(i+1, j+1)},
					[3]int{idx(i, j), idx(i+1, j+1), idx(i, j+1)},
				)
			}
		}
	}
	return m, nil
}

// Grid returns a planar triangulation of the rectangle [min, max] at z=0
// with nx by ny cells, each split into two counter-clockwise triangles.
// Vertex (i, j) has index i + j*(nx+1).
func Grid(min, max r2.Vec, nx, ny int) (*ddg.Mesh, error) {
	if nx < 1 || ny < 1 {
		return nil, ddg.ErrMsg("need at least one cell per side, got %dx%d", nx, ny)
	}
	if min.X >= max.X || min.Y >= max.Y {
		return nil, ddg.ErrMsg("empty rectangle %v to %v", min, max)
	}
	m := &ddg.Mesh{
		Vertices:  make([]r3.Vec, 0, (nx+1)*(ny+1)),
		Triangles: make([][3]int, 0, 2*nx*ny),
	}
	dx := (max.X - min.X) / float64(nx)
	dy := (max.Y - min.Y) / float64(ny)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			m.Vertices = append(m.Vertices, r3.Vec{X: min.X + float64(i)*dx, Y: min.Y + float64(j)*dy})
		}
	}
	// Pin the far edges exactly to max.
	for j := 0; j <= ny; j++ {
		m.Vertices[nx+j*(nx+1)].X = max.X
	}
	for i := 0; i <= nx; i++ {
		m.Vertices[i+ny*(nx+1)].Y = max.Y
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v00 := i + j*(nx+1)
			v10 := v00 + 1
			v01 := v00 + nx + 1
			v11 := v01 + 1
			m.Triangles = append(m.Triangles, [3]int{v00, v10, v11}, [3]int{v00, v11, v01})
		}
	}
	return m, nil
}

// orientOutward flips triangles of a mesh star-shaped about the origin so
// their normals point away from it.
func orientOutward(m *ddg.Mesh) {
	for i, t := range m.Triangles {
		tri := m.Triangle(i)
		if r3.Dot(tri.Normal(), tri.Centroid()) < 0 {
			m.Triangles[i] = [3]int{t[0], t[2], t[1]}
		}
	}
}
