package d2

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Box is a 2d bounding box.
type Box r2.Box

// Include enlarges a 2d box to include a point.
func (a Box) Include(v r2.Vec) Box {
	return Box{MinElem(a.Min, v), MaxElem(a.Max, v)}
}

// Size returns the size of a 2d box.
func (a Box) Size() r2.Vec {
	return r2.Sub(a.Max, a.Min)
}

// Enlarge returns a new 2d box grown by d on every side.
func (a Box) Enlarge(d float64) Box {
	v := r2.Vec{X: d, Y: d}
	return Box{r2.Sub(a.Min, v), r2.Add(a.Max, v)}
}

