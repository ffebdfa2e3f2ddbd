package linalg

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCramer(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-12)
	tests := []struct {
		name string
		a    [][]float64
		b    []float64
		want []float64
	}{
		{"1x1", [][]float64{{4}}, []float64{2}, []float64{0.5}},
		{"2x2", [][]float64{{2, 1}, {1, 3}}, []float64{3, 5}, []float64{0.8, 1.4}},
		{
			"3x3",
			[][]float64{{2, 1, -1}, {-3, -1, 2}, {-2, 1, 2}},
			[]float64{8, -11, -3},
			[]float64{2, 3, -1},
		},
		{
			"4x4 diagonal",
			[][]float64{{2, 0, 0, 0}, {0, 4, 0, 0}, {0, 0, 5, 0}, {0, 0, 0, 10}},
			[]float64{2, 2, 2, 2},
			[]float64{1, 0.5, 0.4, 0.2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cramer(tt.a, tt.b)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Cramer() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCramerSingular(t *testing.T) {
	x := Cramer([][]float64{{1, 2}, {2, 4}}, []float64{1, 1})
	if IsFinite(x...) {
		t.Errorf("Cramer on singular system = %v, want non-finite", x)
	}
	x3 := Solve3([3][3]float64{{1, 1, 1}, {1, 1, 1}, {0, 0, 1}}, [3]float64{1, 2, 3})
	if IsFinite(x3[:]...) {
		t.Errorf("Solve3 on singular system = %v, want non-finite", x3)
	}
}

func TestCramerShapePanics(t *testing.T) {
	tests := []struct {
		name string
		a    [][]float64
		b    []float64
	}{
		{"empty", nil, nil},
		{"non-square", [][]float64{{1, 2, 3}, {4, 5, 6}}, []float64{1, 2}},
		{"rhs mismatch", [][]float64{{1, 0}, {0, 1}}, []float64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Cramer(%v, %v) did not panic", tt.a, tt.b)
				}
			}()
			Cramer(tt.a, tt.b)
		})
	}
}

func TestFixedSizeSolversMatchCramer(t *testing.T) {
	a := [3][3]float64{{3, 2, -1}, {2, -2, 4}, {-1, 0.5, -1}}
	b := [3]float64{1, -2, 0}
	got := Solve3(a, b)
	want := Cramer([][]float64{a[0][:], a[1][:], a[2][:]}, b[:])
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Solve3()[%d] = %g, Cramer = %g", i, got[i], want[i])
		}
	}
	m := Mat2{{3, 1}, {1, 2}}
	got2 := Solve2(m, [2]float64{9, 8})
	if math.Abs(got2[0]-2) > 1e-12 || math.Abs(got2[1]-3) > 1e-12 {
		t.Errorf("Solve2() = %v, want [2 3]", got2)
	}
}

func TestMat2Inverse(t *testing.T) {
	m := Mat2{{4, 7}, {2, 6}}
	if got := m.Mul(m.Inverse()); !EqualWithin(got, Identity2(), 1e-12) {
		t.Errorf("m·m⁻¹ = %v, want identity", got)
	}
	if (Mat2{{1, 2}, {2, 4}}).Inverse().IsFinite() {
		t.Error("inverse of singular matrix should not be finite")
	}
}
