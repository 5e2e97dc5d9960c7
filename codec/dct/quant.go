/*
NAME
  quant.go

DESCRIPTION
  quant.go provides the per-block scaling and uniform quantization of kept
  DCT coefficients.

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

	"gonum.org/v1/gonum/floats"
)

// scaleEpsilon is the largest block scale treated as silence.
const scaleEpsilon = 1e-10

// BlockScale returns the maximum absolute value of coeffs, or 1 if that is
// indistinguishable from zero. The result is rounded to float32 precision, as
// it is stored in the stream.
func BlockScale(coeffs []float64) float32 {
	s := floats.Norm(coeffs, math.Inf(1))
	if s < scaleEpsilon {
		return 1
	}
	return float32(s)
}

// MaxLevel returns the largest level representable with q bits.
func MaxLevel(q int) uint64 {
	return 1<<uint(q) - 1
}

// Quantize maps coeff/scale from [-1, 1] to a level in [0, 2^q-1]. Values
// outside the range are clamped.
func Quantize(coeff float64, scale float32, q int) uint64 {
	top := float64(MaxLevel(q))
	l := math.Round((coeff/float64(scale) + 1) * top / 2)
	switch {
	case l < 0 || math.IsNaN(l):
		return 0
	case l > top:
		return MaxLevel(q)
	}
	return uint64(l)
}

// Dequantize maps level from [0, 2^q-1] to a normalized value in [-1, 1].
func Dequantize(level uint64, q int) float64 {
	return float64(level)*2/float64(MaxLevel(q)) - 1
}

// quantizeBlock quantizes coeffs into levels, returning levels.
func quantizeBlock(levels []uint64, coeffs []float64, scale float32, q int) []uint64 {
	levels = levels[:0]
	for _, c := range coeffs {
		levels = append(levels, Quantize(c, scale, q))
	}
	return levels
}

// dequantizeBlock fills coeffs[:len(levels)] with the dequantized levels
// multiplied by scale and sets the remaining coefficients to zero.
func dequantizeBlock(coeffs []float64, levels []uint64, scale float32, q int) {
	for i, l := range levels {
		coeffs[i] = Dequantize(l, q)
	}
	floats.Scale(float64(scale), coeffs[:len(levels)])
	for i := len(levels); i < len(coeffs); i++ {
		coeffs[i] = 0
	}
}
