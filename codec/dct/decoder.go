/*
NAME
  decoder.go

DESCRIPTION
  decoder.go provides the DCT audio decoder, which reconstructs mono 16-bit
  samples from a bit-packed stream of quantized DCT coefficients.

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

// Decoder decodes a DCT stream to samples. A Decoder must not be used by more
// than one goroutine at a time.
type Decoder struct {
	br  *bits.BitReader
	hdr Header
	tr  Transform
	log logging.Logger
}

// NewDecoder returns a new Decoder reading from src. The stream header is read
// and validated here; if any field is out of range ErrCorruptHeader is
// returned and no block data is read.
func NewDecoder(src io.Reader, l logging.Logger, options ...func(*Decoder) error) (*Decoder, error) {
	d := &Decoder{
		br:  bits.NewBitReader(src),
		tr:  FFTTransform{},
		log: l,
	}
	for _, option := range options {
		err := option(d)
		if err != nil {
			return nil, errors.Wrap(err, "could not apply decoder option")
		}
	}

	hdr, err := readHeader(d.br)
	if err != nil {
		return nil, err
	}
	err = hdr.Validate()
	if err != nil {
		return nil, err
	}
	d.hdr = hdr

	d.log.Info("decoding", "sampleRate", hdr.SampleRate, "frames", hdr.TotalFrames, "blockSize", hdr.BlockSize,
		"kept", hdr.Kept, "quantBits", hdr.QuantBits,
		"ratio", CompressionRatio(int(hdr.BlockSize), int(hdr.Kept), int(hdr.QuantBits)))
	return d, nil
}

// Header returns the validated stream header.
func (d *Decoder) Header() Header { return d.hdr }

// Decode reads every block of the stream and writes the reconstructed samples
// to dst, exactly TotalFrames of them. If the stream ends before all blocks
// are read, ErrTruncatedStream is returned.
func (d *Decoder) Decode(dst Sink) (Stats, error) {
	var (
		stats  Stats
		n      = int(d.hdr.BlockSize)
		q      = int(d.hdr.QuantBits)
		levels = make([]uint64, d.hdr.Kept)
		coeffs = make([]float64, n)
		block  = make([]float64, n)
		out    = make([]int16, n)
	)
	for stats.Frames < d.hdr.TotalFrames {
		scale, err := readBlock(d.br, levels, q)
		if errors.Is(err, bits.ErrUnexpectedEndOfStream) {
			return stats, errors.Wrapf(ErrTruncatedStream, "block %d of %d incomplete after %d frames", stats.Blocks, d.hdr.Blocks(), stats.Frames)
		}
		if err != nil {
			return stats, errors.Wrapf(err, "could not read block %d", stats.Blocks)
		}

		dequantizeBlock(coeffs, levels, scale, q)
		block = d.tr.Inverse(block, coeffs)

		// Only the frames of the original stream are emitted; the padding of a
		// short final block is dropped.
		want := n
		if left := d.hdr.TotalFrames - stats.Frames; left < uint64(n) {
			want = int(left)
		}
		for i := range out[:want] {
			out[i] = toSample(block[i])
		}
		written, err := dst.WriteSamples(out[:want])
		if err == nil && written < want {
			err = io.ErrShortWrite
		}
		if err != nil {
			return stats, errors.Wrapf(err, "could not write block %d", stats.Blocks)
		}

		stats.Frames += uint64(want)
		stats.Blocks++
		if stats.Blocks%progressInterval == 0 {
			d.log.Debug("decoded blocks", "blocks", stats.Blocks, "frames", stats.Frames,
				"seconds", float64(stats.Frames)/float64(d.hdr.SampleRate))
		}
	}
	stats.Bytes = int64(d.br.BytesRead())

	d.log.Info("decoding complete", "blocks", stats.Blocks, "frames", stats.Frames, "bytes", stats.Bytes)
	return stats, nil
}

// Close releases the decoder's bit reader. The source is not closed.
func (d *Decoder) Close() error {
	return d.br.Close()
}

// WithDecoderTransform is an option that can be passed to NewDecoder to
// replace the default FFT based transform.
func WithDecoderTransform(t Transform) func(*Decoder) error {
	return func(d *Decoder) error {
		if t == nil {
			return errors.New("nil transform")
		}
		d.tr = t
		return nil
	}
}

// readBlock reads one block record, filling levels and returning the scale.
func readBlock(br *bits.BitReader, levels []uint64, q int) (float32, error) {
	v, err := br.ReadBits(scaleBits)
	if err != nil {
		return 0, err
	}
	scale := math.Float32frombits(uint32(v))
	for i := range levels {
		levels[i], err = br.ReadBits(q)
		if err != nil {
			return 0, err
		}
	}
	return scale, nil
}

// toSample maps a value in [-1, 1] to a 16-bit sample, clamping anything out
// of range.
func toSample(v float64) int16 {
	s := math.Round(v * fullScale)
	switch {
	case s > math.MaxInt16:
		return math.MaxInt16
	case s < math.MinInt16:
		return math.MinInt16
	case math.IsNaN(s):
		return 0
	}
	return int16(s)
}
