/*
NAME
  quality.go

DESCRIPTION
  quality.go provides measures of how closely decoded audio matches a
  reference.

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

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Quality holds error measures between a reference and a reconstruction.
type Quality struct {
	RMSE   float64 // Root mean square error, in sample units.
	MaxErr float64 // Largest absolute sample error.
	SNR    float64 // Signal to noise ratio in dB; +Inf for an exact match.
}

// Compare returns the error of got relative to ref. The slices must be the
// same non-zero length.
func Compare(ref, got []int16) (Quality, error) {
	if len(ref) != len(got) {
		return Quality{}, errors.Errorf("length mismatch: %d reference samples, %d decoded", len(ref), len(got))
	}
	if len(ref) == 0 {
		return Quality{}, errors.New("no samples to compare")
	}

	sig := make([]float64, len(ref))
	diff := make([]float64, len(ref))
	for i := range ref {
		sig[i] = float64(ref[i])
		diff[i] = float64(got[i]) - sig[i]
	}

	noise := stat.Mean(square(diff), nil)
	power := stat.Mean(square(sig), nil)
	q := Quality{
		RMSE:   math.Sqrt(noise),
		MaxErr: floats.Norm(diff, math.Inf(1)),
	}
	switch {
	case noise == 0:
		q.SNR = math.Inf(1)
	case power == 0:
		q.SNR = math.Inf(-1)
	default:
		q.SNR = 10 * math.Log10(power/noise)
	}
	return q, nil
}

func square(s []float64) []float64 {
	sq := make([]float64, len(s))
	floats.MulTo(sq, s, s)
	return sq
}
