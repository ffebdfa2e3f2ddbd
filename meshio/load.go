package meshio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"
	"github.com/soypat/ddg"
	"gonum.org/v1/gonum/spatial/r3"
)

// Load reads an STL, OBJ or PLY file chosen by extension and welds its
// vertices. ASCII and binary STL are both accepted.
func Load(path string) (*ddg.Mesh, error) {
	var (
		mesh *fauxgl.Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		mesh, err = fauxgl.LoadSTL(path)
	case ".obj":
		mesh, err = fauxgl.LoadOBJ(path)
	case ".ply":
		mesh, err = fauxgl.LoadPLY(path)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	tris := make([][3]r3.Vec, len(mesh.Triangles))
	for i, t := range mesh.Triangles {
		tris[i] = [3]r3.Vec{fromFauxgl(t.V1.Position), fromFauxgl(t.V2.Position), fromFauxgl(t.V3.Position)}
	}
	m, err := Weld(tris, 0)
	if err != nil {
		return nil, fmt.Errorf("welding %s: %w", path, err)
	}
	return m, nil
}

func fromFauxgl(v fauxgl.Vector) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
