package linalg

import (
	"fmt"
	"math"
)

// Cramer solves the square linear system a·x = b by determinant ratios.
// It is meant for the small fixed-size systems of per-triangle fits, where
// a closed form beats elimination. A singular a yields non-finite entries in x;
// callers check with IsFinite.
//
// Cramer panics if a is not square or b does not match a's size.
func Cramer(a [][]float64, b []float64) []float64 {
	n := len(a)
	if n == 0 {
		panic("linalg: empty system")
	}
	for i, row := range a {
		if len(row) != n {
			panic(fmt.Sprintf("linalg: non-square matrix, row %d has %d columns, want %d", i, len(row), n))
		}
	}
	if len(b) != n {
		panic(fmt.Sprintf("linalg: right hand side length %d does not match %dx%d matrix", len(b), n, n))
	}
	d := det(a)
	x := make([]float64, n)
	work := make([][]float64, n)
	for i := range work {
		work[i] = make([]float64, n)
	}
	for col := 0; col < n; col++ {
		for i := range a {
			copy(work[i], a[i])
			work[i][col] = b[i]
		}
		x[col] = det(work) / d
	}
	return x
}

// Solve2 solves the 2x2 system a·x = b by Cramer's rule.
func Solve2(a Mat2, b [2]float64) [2]float64 {
	d := a.Det()
	return [2]float64{
		(b[0]*a[1][1] - a[0][1]*b[1]) / d,
		(a[0][0]*b[1] - b[0]*a[1][0]) / d,
	}
}

// Solve3 solves the 3x3 system a·x = b by Cramer's rule.
func Solve3(a [3][3]float64, b [3]float64) [3]float64 {
	d := det3(a)
	var x [3]float64
	for col := 0; col < 3; col++ {
		w := a
		for i := 0; i < 3; i++ {
			w[i][col] = b[i]
		}
		x[col] = det3(w) / d
	}
	return x
}

// IsFinite reports whether no element of x is NaN or infinite.
func IsFinite(x ...float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func det3(a [3][3]float64) float64 {
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

// det computes the determinant by cofactor expansion along the first row.
func det(a [][]float64) float64 {
	switch n := len(a); n {
	case 1:
		return a[0][0]
	case 2:
		return a[0][0]*a[1][1] - a[0][1]*a[1][0]
	case 3:
		return det3([3][3]float64{
			{a[0][0], a[0][1], a[0][2]},
			{a[1][0], a[1][1], a[1][2]},
			{a[2][0], a[2][1], a[2][2]},
		})
	default:
		minor := make([][]float64, n-1)
		var sum float64
		sign := 1.0
		for col := 0; col < n; col++ {
			for i := 1; i < n; i++ {
				row := minor[i-1][:0]
				row = append(row, a[i][:col]...)
				minor[i-1] = append(row, a[i][col+1:]...)
			}
			sum += sign * a[0][col] * det(minor)
			sign = -sign
		}
		return sum
	}
}
