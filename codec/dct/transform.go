/*
NAME
  transform.go

DESCRIPTION
  transform.go provides the orthonormal DCT-II/DCT-III transform pair used by
  the codec, computed with a single complex FFT of the block length.

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

	"github.com/mjibson/go-dsp/fft"
)

// Transform is a forward/inverse cosine transform pair. Forward must be an
// orthonormal DCT-II, i.e. coefficient 0 is scaled by sqrt(1/N) and
// coefficients 1..N-1 by sqrt(2/N), and Inverse must be its exact inverse.
// Both write len(src) values to dst, growing it if needed, and return it.
type Transform interface {
	Forward(dst, src []float64) []float64
	Inverse(dst, src []float64) []float64
}

// FFTTransform implements Transform using Makhoul's reordering, which gives
// a DCT of any length from one complex FFT of the same length. It holds no
// state and is safe for concurrent use.
type FFTTransform struct{}

// Forward computes the orthonormal DCT-II of src.
func (FFTTransform) Forward(dst, src []float64) []float64 {
	n := len(src)
	dst = resize(dst, n)
	if n == 0 {
		return dst
	}

	// Even samples ascending then odd samples descending.
	v := make([]float64, n)
	for i := 0; 2*i < n; i++ {
		v[i] = src[2*i]
	}
	for i := 0; 2*i+1 < n; i++ {
		v[n-1-i] = src[2*i+1]
	}
	freq := fft.FFTReal(v)

	// Y[k] = Re(exp(-i*pi*k/2N) * V[k]).
	c0, ck := normFactors(n)
	for k := range dst {
		s, c := math.Sincos(math.Pi * float64(k) / float64(2*n))
		y := c*real(freq[k]) + s*imag(freq[k])
		if k == 0 {
			dst[k] = y * c0
		} else {
			dst[k] = y * ck
		}
	}
	return dst
}

// Inverse computes the orthonormal DCT-III of src, undoing Forward.
func (FFTTransform) Inverse(dst, src []float64) []float64 {
	n := len(src)
	dst = resize(dst, n)
	if n == 0 {
		return dst
	}

	// Remove the orthonormal scaling to get back the plain DCT-II sums.
	c0, ck := normFactors(n)
	y := func(k int) float64 {
		switch {
		case k == 0:
			return src[0] / c0
		case k == n:
			return 0
		default:
			return src[k] / ck
		}
	}

	// V[k] = exp(i*pi*k/2N) * (Y[k] - i*Y[N-k]).
	freq := make([]complex128, n)
	for k := range freq {
		a, b := y(k), y(n-k)
		s, c := math.Sincos(math.Pi * float64(k) / float64(2*n))
		freq[k] = complex(a*c+b*s, a*s-b*c)
	}
	v := fft.IFFT(freq)

	for i := 0; 2*i < n; i++ {
		dst[2*i] = real(v[i])
	}
	for i := 0; 2*i+1 < n; i++ {
		dst[2*i+1] = real(v[n-1-i])
	}
	return dst
}

// normFactors returns the orthonormal scale factors for coefficient 0 and for
// coefficients 1..n-1.
func normFactors(n int) (float64, float64) {
	return math.Sqrt(1 / float64(n)), math.Sqrt(2 / float64(n))
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
