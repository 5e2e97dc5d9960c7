/*
NAME
  dct.go

DESCRIPTION
  dct.go contains the types, limits and errors shared by the DCT audio
  encoder and decoder.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dct provides a lossy block-transform codec for mono 16-bit PCM
// audio. Audio is cut into fixed size blocks, each block is transformed with an
// orthonormal DCT-II, the high-frequency coefficients are discarded and the
// remainder are quantized and bit-packed.
//
// The stream layout, with all fields packed MSB-first and no inter-field
// padding, is:
//
//	header: sampleRate(32) totalFrames(64) blockSize(16) keptCoefficients(16) quantBits(8)
//	block:  scale(32, IEEE-754 float) level[0..M-1](quantBits each)
//
// The block record is repeated ceil(totalFrames/blockSize) times and the stream
// is zero padded to a whole byte.
package dct

import (
	"github.com/pkg/errors"
)

// Stream parameter limits.
const (
	MinBlockSize  = 64
	MaxBlockSize  = 8192
	MinQuantBits  = 4
	MaxQuantBits  = 16
	MinSampleRate = 1000
	MaxSampleRate = 192000
)

// Defaults, as used by the command line tools.
const (
	DefaultBlockSize    = 1024
	DefaultKeepFraction = 0.2
	DefaultQuantBits    = 8
)

// Field widths in bits.
const (
	sampleRateBits  = 32
	totalFramesBits = 64
	blockSizeBits   = 16
	keptBits        = 16
	quantBitsBits   = 8
	scaleBits       = 32

	headerBits = sampleRateBits + totalFramesBits + blockSizeBits + keptBits + quantBitsBits

	// HeaderSize is the size of the stream header in bytes.
	HeaderSize = headerBits / 8
)

// Supported input sample format.
const (
	sampleBitDepth = 16
	sampleChannels = 1
	fullScale      = 32768.0 // Magnitude of the most negative 16-bit sample.
)

var (
	ErrInvalidConfig    = errors.New("invalid codec config")
	ErrUnsupportedInput = errors.New("unsupported input")
	ErrCorruptHeader    = errors.New("corrupt stream header")
	ErrTruncatedStream  = errors.New("truncated stream")
)

// StreamInfo describes the audio delivered by a Source.
type StreamInfo struct {
	SampleRate uint32
	Frames     uint64 // Number of sample frames in the stream.
	Channels   int
	BitDepth   int
}

// Source provides fixed-point samples to an Encoder.
type Source interface {
	// Info describes the stream. It is called once, before any samples are read.
	Info() StreamInfo

	// ReadSamples reads up to len(p) samples into p and returns the number read.
	// A short read is not an error. io.EOF is returned once the source is
	// exhausted.
	ReadSamples(p []int16) (int, error)
}

// Sink accepts the samples produced by a Decoder.
type Sink interface {
	WriteSamples(p []int16) (int, error)
}

// Config holds the encoder parameters.
type Config struct {
	BlockSize    int     // Samples per transform block, N.
	KeepFraction float64 // Fraction of the N coefficients kept, in (0, 1].
	QuantBits    int     // Bits per kept coefficient, Q.
}

// Validate checks that c is within the limits of the stream format.
func (c Config) Validate() error {
	switch {
	case c.BlockSize < MinBlockSize || c.BlockSize > MaxBlockSize:
		return errors.Wrapf(ErrInvalidConfig, "block size %d not in [%d, %d]", c.BlockSize, MinBlockSize, MaxBlockSize)
	case !(c.KeepFraction > 0 && c.KeepFraction <= 1):
		return errors.Wrapf(ErrInvalidConfig, "keep fraction %v not in (0, 1]", c.KeepFraction)
	case c.QuantBits < MinQuantBits || c.QuantBits > MaxQuantBits:
		return errors.Wrapf(ErrInvalidConfig, "quantization bits %d not in [%d, %d]", c.QuantBits, MinQuantBits, MaxQuantBits)
	}
	return nil
}

// Kept returns the number of coefficients kept per block, M.
func (c Config) Kept() int {
	return KeptCoefficients(c.BlockSize, c.KeepFraction)
}

// KeptCoefficients returns floor(n*frac) clamped to [1, n].
func KeptCoefficients(n int, frac float64) int {
	m := int(float64(n) * frac)
	if m < 1 {
		m = 1
	}
	if m > n {
		m = n
	}
	return m
}

// Blocks returns the number of blocks needed to hold frames samples with
// blocks of n samples.
func Blocks(frames uint64, n int) uint64 {
	if n <= 0 {
		return 0
	}
	return (frames + uint64(n) - 1) / uint64(n)
}

// EncodedSize returns the size in bytes of a stream holding frames samples,
// encoded with block size n, m kept coefficients and q quantization bits,
// including the header and final padding.
func EncodedSize(frames uint64, n, m, q int) int64 {
	bits := int64(headerBits) + int64(Blocks(frames, n))*int64(scaleBits+m*q)
	return (bits + 7) / 8
}

// CompressionRatio returns the expected ratio of 16-bit PCM size to encoded
// size, ignoring the header.
func CompressionRatio(n, m, q int) float64 {
	return float64(n*sampleBitDepth) / float64(m*q)
}

// Stats reports what an Encode or Decode call processed.
type Stats struct {
	Frames uint64 // Sample frames consumed or produced.
	Blocks uint64 // Block records written or read.
	Bytes  int64  // Encoded stream bytes written or read.
}
