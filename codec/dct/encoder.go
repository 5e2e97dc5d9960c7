/*
NAME
  encoder.go

DESCRIPTION
  encoder.go provides the DCT audio encoder, which turns mono 16-bit samples
  into a bit-packed stream of quantized low-frequency DCT coefficients.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dct

import (
	"io"
	"math"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/dctcodec/codec/bits"
)

// Blocks between progress log messages.
const progressInterval = 100

// Encoder encodes audio from a Source to a DCT stream. An Encoder must not be
// used by more than one goroutine at a time.
type Encoder struct {
	// dst is the destination for the encoded stream.
	dst io.Writer

	cfg  Config
	kept int
	tr   Transform
	log  logging.Logger
}

// NewEncoder returns a new Encoder writing to dst. The config is checked here,
// before any I/O, and ErrInvalidConfig is returned if it is out of range.
func NewEncoder(dst io.Writer, cfg Config, l logging.Logger, options ...func(*Encoder) error) (*Encoder, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	e := &Encoder{
		dst:  dst,
		cfg:  cfg,
		kept: cfg.Kept(),
		tr:   FFTTransform{},
		log:  l,
	}
	for _, option := range options {
		err := option(e)
		if err != nil {
			return nil, errors.Wrap(err, "could not apply encoder option")
		}
	}
	return e, nil
}

// Encode reads all frames declared by src.Info and writes the encoded stream
// to the destination. The source must be mono 16-bit audio at a sample rate
// the stream format supports, otherwise ErrUnsupportedInput is returned before
// anything is written. If Encode fails the output is invalid and must be
// discarded.
func (e *Encoder) Encode(src Source) (Stats, error) {
	info := src.Info()
	err := checkInfo(info)
	if err != nil {
		return Stats{}, err
	}

	n := e.cfg.BlockSize
	q := e.cfg.QuantBits
	hdr := Header{
		SampleRate:  info.SampleRate,
		TotalFrames: info.Frames,
		BlockSize:   uint16(n),
		Kept:        uint16(e.kept),
		QuantBits:   uint8(q),
	}
	e.log.Info("encoding", "sampleRate", hdr.SampleRate, "frames", hdr.TotalFrames, "blockSize", n,
		"kept", e.kept, "quantBits", q, "expectedRatio", CompressionRatio(n, e.kept, q))

	bw := bits.NewBitWriter(e.dst)
	err = writeHeader(bw, hdr)
	if err != nil {
		return Stats{}, err
	}

	var (
		stats   Stats
		samples = make([]int16, n)
		block   = make([]float64, n)
		coeffs  = make([]float64, n)
		levels  = make([]uint64, 0, e.kept)
	)
	for remaining := info.Frames; remaining > 0; {
		want := n
		if remaining < uint64(n) {
			want = int(remaining)
		}
		got, err := readFull(src, samples[:want])
		if err != nil {
			return stats, errors.Wrapf(err, "could not read block %d", stats.Blocks)
		}
		if got < want {
			return stats, errors.Wrapf(ErrUnsupportedInput, "source ended after %d of %d frames", stats.Frames+uint64(got), info.Frames)
		}

		// Normalise to [-1, 1]; a short final block is padded with silence.
		for i := range block {
			if i < got {
				block[i] = float64(samples[i]) / fullScale
			} else {
				block[i] = 0
			}
		}

		coeffs = e.tr.Forward(coeffs, block)
		kept := coeffs[:e.kept]
		scale := BlockScale(kept)
		levels = quantizeBlock(levels, kept, scale, q)

		err = writeBlock(bw, scale, levels, q)
		if err != nil {
			return stats, errors.Wrapf(err, "could not write block %d", stats.Blocks)
		}

		remaining -= uint64(got)
		stats.Frames += uint64(got)
		stats.Blocks++
		if stats.Blocks%progressInterval == 0 {
			e.log.Debug("encoded blocks", "blocks", stats.Blocks, "frames", stats.Frames)
		}
	}

	err = bw.Close()
	if err != nil {
		return stats, errors.Wrap(err, "could not close bit writer")
	}
	stats.Bytes = bw.BytesWritten()

	e.log.Info("encoding complete", "blocks", stats.Blocks, "frames", stats.Frames, "bytes", stats.Bytes,
		"ratio", float64(stats.Frames*sampleBitDepth/8)/float64(stats.Bytes))
	return stats, nil
}

// WithEncoderTransform is an option that can be passed to NewEncoder to
// replace the default FFT based transform.
func WithEncoderTransform(t Transform) func(*Encoder) error {
	return func(e *Encoder) error {
		if t == nil {
			return errors.New("nil transform")
		}
		e.tr = t
		return nil
	}
}

// checkInfo checks that a source carries audio that can be encoded.
func checkInfo(info StreamInfo) error {
	switch {
	case info.Channels != sampleChannels:
		return errors.Wrapf(ErrUnsupportedInput, "%d channels, want mono", info.Channels)
	case info.BitDepth != sampleBitDepth:
		return errors.Wrapf(ErrUnsupportedInput, "%d-bit samples, want %d-bit", info.BitDepth, sampleBitDepth)
	case info.SampleRate < MinSampleRate || info.SampleRate > MaxSampleRate:
		return errors.Wrapf(ErrUnsupportedInput, "sample rate %d not in [%d, %d]", info.SampleRate, MinSampleRate, MaxSampleRate)
	}
	return nil
}

// readFull reads from src until p is full or the source is exhausted,
// returning the number of samples read. Exhaustion is not an error.
func readFull(src Source, p []int16) (int, error) {
	var n int
	for n < len(p) {
		m, err := src.ReadSamples(p[n:])
		n += m
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if m == 0 {
			return n, io.ErrNoProgress
		}
	}
	return n, nil
}

// writeBlock writes one block record: the scale followed by the levels.
func writeBlock(bw *bits.BitWriter, scale float32, levels []uint64, q int) error {
	err := bw.WriteBits(uint64(math.Float32bits(scale)), scaleBits)
	if err != nil {
		return err
	}
	for _, l := range levels {
		err = bw.WriteBits(l, q)
		if err != nil {
			return err
		}
	}
	return nil
}
