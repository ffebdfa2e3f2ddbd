package field

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/soypat/ddg"
	"github.com/soypat/ddg/internal/d2"
	"github.com/soypat/ddg/linalg"
	"github.com/soypat/ddg/shape"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func TestFieldSize(t *testing.T) {
	m := mustGrid(t, 2, 2)
	if _, err := NewVector(m, make([]r2.Vec, len(m.Vertices)-1)); !errors.Is(err, ErrFieldSize) {
		t.Errorf("vector: got %v, want ErrFieldSize", err)
	}
	if _, err := NewTensor(m, make([]linalg.Mat2, len(m.Vertices)+1)); !errors.Is(err, ErrFieldSize) {
		t.Errorf("tensor: got %v, want ErrFieldSize", err)
	}
}

func TestVectorReproducesAffineField(t *testing.T) {
	m := mustGrid(t, 8, 8)
	terms := []Term{
		{Kind: Source, Center: r2.Vec{X: 0.3, Y: -0.2}, Strength: 1.5},
		{Kind: Vortex, Center: r2.Vec{X: -1, Y: 1}, Strength: 0.5},
		{Kind: Uniform, Strength: 2, Direction: r2.Vec{X: 1, Y: 1}},
	}
	ip, err := NewVector(m, SampleVector(m, terms...))
	if err != nil {
		t.Fatal(err)
	}
	if ip.InvalidCount() != 0 {
		t.Fatalf("grid has %d invalid elements", ip.InvalidCount())
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		p := r2.Vec{X: 4*rng.Float64() - 2, Y: 4*rng.Float64() - 2}
		got, ok := ip.Evaluate(p)
		if !ok {
			t.Fatalf("point %v inside domain not evaluated", p)
		}
		var want r2.Vec
		for _, term := range terms {
			want = r2.Add(want, term.At(p))
		}
		if !d2.EqualWithin(got, want, tol) {
			t.Errorf("at %v got %v, want %v", p, got, want)
		}
	}
	// Grid vertices and shared edges lie in several triangles.
	for _, p := range []r2.Vec{{X: -2, Y: -2}, {X: 0, Y: 0}, {X: 2, Y: 2}, {X: 0.25, Y: 0.25}} {
		if _, ok := ip.Evaluate(p); !ok {
			t.Errorf("point %v on element boundary not evaluated", p)
		}
	}
	for _, p := range []r2.Vec{{X: 2.1}, {Y: -3}, {X: math.NaN()}, {X: math.Inf(1)}} {
		if _, ok := ip.Evaluate(p); ok {
			t.Errorf("point %v outside domain evaluated", p)
		}
	}
}

func TestLinearMatchesEvaluate(t *testing.T) {
	m := mustGrid(t, 3, 3)
	ip, err := NewVector(m, SampleVector(m, Term{Kind: Saddle, Center: r2.Vec{X: 0.5}, Strength: 2}))
	if err != nil {
		t.Fatal(err)
	}
	for tri := 0; tri < ip.NumTriangles(); tri++ {
		A, B, ok := ip.Linear(tri)
		if !ok {
			t.Fatalf("triangle %d invalid", tri)
		}
		if !linalg.EqualWithin(A, linalg.Mat2{{2, 0}, {0, -2}}, tol) {
			t.Errorf("triangle %d jacobian %v", tri, A)
		}
		tv := ip.Triangle(tri)
		c := r2.Scale(1./3., r2.Add(r2.Add(tv[0], tv[1]), tv[2]))
		got, _ := ip.Evaluate(c)
		if want := r2.Add(A.MulVec(c), B); !d2.EqualWithin(got, want, tol) {
			t.Errorf("triangle %d centroid: evaluate %v, linear %v", tri, got, want)
		}
	}
}

func TestTensorReconstruction(t *testing.T) {
	m := mustGrid(t, 6, 6)
	terms := []TensorTerm{
		{Kind: TensorUniform, Strength: 1, Angle: 0.3},
		{Kind: TensorWedge, Center: r2.Vec{X: 0.5, Y: 0.5}, Strength: 0.25},
	}
	values := SampleTensor(m, terms...)
	// Add a trace that varies over the domain.
	for i, v := range m.Vertices {
		values[i] = values[i].Add(linalg.Identity2().Scale(v.X))
	}
	ip, err := NewTensor(m, values)
	if err != nil {
		t.Fatal(err)
	}
	if !ip.IsTensor() {
		t.Fatal("tensor interpolator reports vector")
	}
	for _, p := range []r2.Vec{{X: 0.1, Y: 0.7}, {X: -1.3, Y: 1.9}, {X: 1.2, Y: -0.4}} {
		got, ok := ip.EvaluateTensor(p)
		if !ok {
			t.Fatalf("tensor at %v not evaluated", p)
		}
		var want linalg.Mat2
		for _, term := range terms {
			want = want.Add(term.At(p))
		}
		want = want.Add(linalg.Identity2().Scale(p.X))
		if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, tol)); diff != "" {
			t.Errorf("tensor at %v mismatch (-want +got):\n%s", p, diff)
		}
		if !got.IsSymmetric(0) {
			t.Errorf("tensor at %v not symmetric: %v", p, got)
		}
	}
	vec, err := NewVector(m, make([]r2.Vec, len(m.Vertices)))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := vec.EvaluateTensor(r2.Vec{}); ok {
		t.Error("vector interpolator evaluated as tensor")
	}
}

func TestTensorAsymmetryAveraged(t *testing.T) {
	m := mustGrid(t, 1, 1)
	values := make([]linalg.Mat2, len(m.Vertices))
	for i := range values {
		values[i] = linalg.Mat2{{1, 3}, {1, -1}}
	}
	ip, err := NewTensor(m, values)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := ip.EvaluateTensor(r2.Vec{X: 0.5, Y: -0.5})
	if !ok {
		t.Fatal("not evaluated")
	}
	want := linalg.Mat2{{1, 2}, {2, -1}}
	if !linalg.EqualWithin(got, want, tol) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestInvalidElement(t *testing.T) {
	m := &ddg.Mesh{
		Vertices: []r3.Vec{
			{}, {X: 1}, {Y: 1},
			{X: 1, Z: 1}, // Collapses onto the X axis when projected.
		},
		Triangles: [][3]int{{0, 1, 2}, {0, 3, 1}},
	}
	ip, err := NewVector(m, []r2.Vec{{X: 1}, {X: 2}, {X: 3}, {X: 4}})
	if err != nil {
		t.Fatal(err)
	}
	if ip.InvalidCount() != 1 || ip.Valid(1) || !ip.Valid(0) {
		t.Fatalf("invalid count %d, valid %v %v", ip.InvalidCount(), ip.Valid(0), ip.Valid(1))
	}
	if _, _, ok := ip.Linear(1); ok {
		t.Error("invalid element returned a linear map")
	}
	got, ok := ip.Evaluate(r2.Vec{X: 0.5})
	if !ok {
		t.Fatal("edge shared with invalid element not evaluated")
	}
	if !d2.EqualWithin(got, r2.Vec{X: 1.5}, tol) {
		t.Errorf("got %v, want (1.5, 0)", got)
	}
}

func TestLocate(t *testing.T) {
	m := mustGrid(t, 4, 4)
	ip, err := NewVector(m, make([]r2.Vec, len(m.Vertices)))
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		p := r2.Vec{X: 4*rng.Float64() - 2, Y: 4*rng.Float64() - 2}
		tri, ok := ip.Locate(p)
		if !ok {
			t.Fatalf("point %v not located", p)
		}
		tv := ip.Triangle(tri)
		if !InTriangle(Barycentric(tv[0], tv[1], tv[2], p), tol) {
			t.Errorf("point %v not inside located triangle %d %v", p, tri, tv)
		}
		// No lower-index triangle contains p.
		for j := 0; j < tri; j++ {
			tv := ip.Triangle(j)
			if InTriangle(Barycentric(tv[0], tv[1], tv[2], p), tol) {
				t.Errorf("point %v located in %d but lower triangle %d contains it", p, tri, j)
			}
		}
	}
	if _, ok := ip.Locate(r2.Vec{X: 5}); ok {
		t.Error("located point outside the domain")
	}
	b := ip.Bounds()
	if b.Min != (r2.Vec{X: -2, Y: -2}) || b.Max != (r2.Vec{X: 2, Y: 2}) {
		t.Errorf("bounds %v", b)
	}
}

func TestLocateEveryCentroid(t *testing.T) {
	// Enough triangles to split R-tree nodes several times.
	m := mustGrid(t, 12, 12)
	ip, err := NewVector(m, make([]r2.Vec, len(m.Vertices)))
	if err != nil {
		t.Fatal(err)
	}
	for i := range m.Triangles {
		c := d2.Lower(m.Triangle(i).Centroid())
		tri, ok := ip.Locate(c)
		if !ok || tri != i {
			t.Errorf("centroid of triangle %d located in %d (ok=%v)", i, tri, ok)
		}
	}
}

func TestBarycentric(t *testing.T) {
	a, b, c := r2.Vec{}, r2.Vec{X: 2}, r2.Vec{Y: 2}
	tests := []struct {
		name   string
		p      r2.Vec
		want   [3]float64
		inside bool
	}{
		{name: "vertex a", p: a, want: [3]float64{1, 0, 0}, inside: true},
		{name: "vertex b", p: b, want: [3]float64{0, 1, 0}, inside: true},
		{name: "edge", p: r2.Vec{X: 1, Y: 1}, want: [3]float64{0, 0.5, 0.5}, inside: true},
		{name: "centroid", p: r2.Vec{X: 2. / 3., Y: 2. / 3.}, want: [3]float64{1. / 3., 1. / 3., 1. / 3.}, inside: true},
		{name: "outside", p: r2.Vec{X: 2, Y: 2}, want: [3]float64{-1, 1, 1}, inside: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Barycentric(a, b, c, test.p)
			if diff := cmp.Diff(test.want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			if InTriangle(got, tol) != test.inside {
				t.Errorf("inside = %v, want %v", !test.inside, test.inside)
			}
		})
	}
	degenerate := Barycentric(a, b, r2.Vec{X: 1}, r2.Vec{X: 1})
	if InTriangle(degenerate, tol) {
		t.Errorf("degenerate triangle contains point, coordinates %v", degenerate)
	}
}

func TestEigenFields(t *testing.T) {
	const angle = math.Pi / 6
	m := mustGrid(t, 4, 4)
	ip, err := NewTensor(m, SampleTensor(m, TensorTerm{Kind: TensorUniform, Strength: 2, Angle: angle}))
	if err != nil {
		t.Fatal(err)
	}
	major, ok := MajorEigenField(ip).Evaluate(r2.Vec{X: 0.3, Y: 0.1})
	if !ok {
		t.Fatal("major eigenvector not evaluated")
	}
	want := r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
	if math.Abs(math.Abs(r2.Dot(major, want))-1) > tol {
		t.Errorf("major %v, want ±%v", major, want)
	}
	minor, ok := MinorEigenField(ip).Evaluate(r2.Vec{X: 0.3, Y: 0.1})
	if !ok {
		t.Fatal("minor eigenvector not evaluated")
	}
	if math.Abs(r2.Dot(major, minor)) > tol {
		t.Errorf("major %v and minor %v not orthogonal", major, minor)
	}

	iso, err := NewTensor(m, make([]linalg.Mat2, len(m.Vertices)))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := MajorEigenField(iso).Evaluate(r2.Vec{}); ok {
		t.Error("isotropic tensor returned a direction")
	}
	vec, err := NewVector(m, make([]r2.Vec, len(m.Vertices)))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := MajorEigenField(vec).Evaluate(r2.Vec{}); ok {
		t.Error("vector field returned an eigenvector")
	}
}

func TestEigenFieldsLargeTrace(t *testing.T) {
	const (
		iso  = 1000.0
		a, b = 1e-6, 5e-7
	)
	m := mustGrid(t, 4, 4)
	values := make([]linalg.Mat2, len(m.Vertices))
	for i := range values {
		values[i] = linalg.Mat2{{iso + a, b}, {b, iso - a}}
	}
	ip, err := NewTensor(m, values)
	if err != nil {
		t.Fatal(err)
	}
	p := r2.Vec{X: 0.3, Y: -0.7}
	major, ok := MajorEigenField(ip).Evaluate(p)
	if !ok {
		t.Fatal("isotropic part hid the principal direction")
	}
	theta := math.Atan2(b, a) / 2
	want := r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
	if math.Abs(math.Abs(r2.Dot(major, want))-1) > 1e-6 {
		t.Errorf("major %v, want ±%v", major, want)
	}
	minor, ok := MinorEigenField(ip).Evaluate(p)
	if !ok {
		t.Fatal("minor eigenvector not evaluated")
	}
	if math.Abs(r2.Dot(major, minor)) > 1e-6 {
		t.Errorf("major %v and minor %v not orthogonal", major, minor)
	}
}

func TestTermPatterns(t *testing.T) {
	c := r2.Vec{X: 1, Y: 1}
	p := r2.Vec{X: 2, Y: 3}
	tests := []struct {
		term Term
		want r2.Vec
	}{
		{Term{Kind: Uniform, Strength: 2, Direction: r2.Vec{X: 1}}, r2.Vec{X: 2}},
		{Term{Kind: Source, Center: c, Strength: 1}, r2.Vec{X: 1, Y: 2}},
		{Term{Kind: Sink, Center: c, Strength: 1}, r2.Vec{X: -1, Y: -2}},
		{Term{Kind: Vortex, Center: c, Strength: 1}, r2.Vec{X: -2, Y: 1}},
		{Term{Kind: Saddle, Center: c, Strength: 3}, r2.Vec{X: 3, Y: -6}},
	}
	for _, test := range tests {
		t.Run(test.term.Kind.String(), func(t *testing.T) {
			if got := test.term.At(p); got != test.want {
				t.Errorf("got %v, want %v", got, test.want)
			}
		})
	}
	defer func() {
		if recover() == nil {
			t.Error("unknown term kind did not panic")
		}
	}()
	Term{Kind: TermKind(99)}.At(p)
}

func BenchmarkEvaluate(b *testing.B) {
	m, err := shape.Grid(r2.Vec{X: -2, Y: -2}, r2.Vec{X: 2, Y: 2}, 64, 64)
	if err != nil {
		b.Fatal(err)
	}
	ip, err := NewVector(m, SampleVector(m, Term{Kind: Vortex, Strength: 1}))
	if err != nil {
		b.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	pts := make([]r2.Vec, 1024)
	for i := range pts {
		pts[i] = r2.Vec{X: 4*rng.Float64() - 2, Y: 4*rng.Float64() - 2}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ip.Evaluate(pts[i%len(pts)])
	}
}

// mustGrid returns an nx by ny grid over [-2,2]².
func mustGrid(t *testing.T, nx, ny int) *ddg.Mesh {
	t.Helper()
	m, err := shape.Grid(r2.Vec{X: -2, Y: -2}, r2.Vec{X: 2, Y: 2}, nx, ny)
	if err != nil {
		t.Fatal(err)
	}
	return m
}
