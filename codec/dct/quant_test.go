/*
NAME
  quant_test.go

DESCRIPTION
  quant_test.go provides testing for block scaling and coefficient
  quantization.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dct

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBlockScale(t *testing.T) {
	tests := []struct {
		in   []float64
		want float32
	}{
		{in: []float64{0, 0, 0}, want: 1},
		{in: []float64{1e-12, -1e-11}, want: 1},
		{in: []float64{-3, 2, 0.5}, want: 3},
		{in: []float64{0.25}, want: 0.25},
		{in: []float64{0.1, -0.2}, want: float32(0.2)},
	}
	for i, test := range tests {
		got := BlockScale(test.in)
		if got != test.want {
			t.Errorf("did not get expected result for test %d\nGot: %v\nWant: %v\n", i, got, test.want)
		}
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		coeff float64
		scale float32
		q     int
		want  uint64
	}{
		{coeff: -1, scale: 1, q: 8, want: 0},
		{coeff: 1, scale: 1, q: 8, want: 255},
		{coeff: 0, scale: 1, q: 8, want: 128},
		{coeff: 0, scale: 1, q: 4, want: 8},
		{coeff: 2, scale: 1, q: 8, want: 255},
		{coeff: -2, scale: 1, q: 8, want: 0},
		{coeff: 1.5, scale: 3, q: 4, want: 11},
		{coeff: -0.5, scale: 0.5, q: 16, want: 0},
		{coeff: 0.5, scale: 0.5, q: 16, want: 65535},
		{coeff: math.NaN(), scale: 1, q: 8, want: 0},
	}
	for i, test := range tests {
		got := Quantize(test.coeff, test.scale, test.q)
		if got != test.want {
			t.Errorf("did not get expected result for test %d\nGot: %v\nWant: %v\n", i, got, test.want)
		}
	}
}

// TestDequantizeMonotonic checks that dequantized values are non-decreasing in
// level and span exactly [-1, 1].
func TestDequantizeMonotonic(t *testing.T) {
	const tol = 1e-12
	for q := MinQuantBits; q <= MaxQuantBits; q++ {
		if got := Dequantize(0, q); math.Abs(got+1) > tol {
			t.Errorf("q=%d: level 0 gave %v, want -1", q, got)
		}
		if got := Dequantize(MaxLevel(q), q); math.Abs(got-1) > tol {
			t.Errorf("q=%d: max level gave %v, want 1", q, got)
		}
		prev := math.Inf(-1)
		for l := uint64(0); l <= MaxLevel(q); l++ {
			v := Dequantize(l, q)
			if v < prev {
				t.Fatalf("q=%d: level %d gave %v, below previous %v", q, l, v, prev)
			}
			prev = v
		}
	}
}

// TestQuantizeError checks that quantizing then dequantizing is within half a
// quantization step.
func TestQuantizeError(t *testing.T) {
	const scale = 2.5
	for q := MinQuantBits; q <= MaxQuantBits; q++ {
		half := scale / float64(MaxLevel(q))
		for c := -scale; c <= scale; c += scale / 97 {
			got := Dequantize(Quantize(c, scale, q), q) * scale
			if math.Abs(got-c) > half+1e-12 {
				t.Fatalf("q=%d: %v became %v, error beyond half step %v", q, c, got, half)
			}
		}
	}
}

func TestDequantizeBlock(t *testing.T) {
	coeffs := []float64{9, 9, 9, 9, 9}
	dequantizeBlock(coeffs, []uint64{0, 15}, 2, 4)
	want := []float64{-2, 2, 0, 0, 0}
	if !cmp.Equal(coeffs, want) {
		t.Errorf("did not get expected coefficients\nGot: %v\nWant: %v\n", coeffs, want)
	}
}
