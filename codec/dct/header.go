/*
NAME
  header.go

DESCRIPTION
  header.go provides reading, writing and validation of the DCT stream header.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dct

import (
	"github.com/pkg/errors"

	"github.com/ausocean/dctcodec/codec/bits"
)

// Header describes an encoded stream. It is written once at the start of the
// stream and never changes.
type Header struct {
	SampleRate  uint32 // Hz.
	TotalFrames uint64 // Sample frames in the original audio.
	BlockSize   uint16 // N.
	Kept        uint16 // Kept coefficients per block, M.
	QuantBits   uint8  // Bits per kept coefficient, Q.
}

// Validate checks the header fields are within the limits of the stream
// format. Any violation is reported as ErrCorruptHeader.
func (h Header) Validate() error {
	switch {
	case h.SampleRate < MinSampleRate || h.SampleRate > MaxSampleRate:
		return errors.Wrapf(ErrCorruptHeader, "sample rate %d not in [%d, %d]", h.SampleRate, MinSampleRate, MaxSampleRate)
	case h.BlockSize < MinBlockSize || h.BlockSize > MaxBlockSize:
		return errors.Wrapf(ErrCorruptHeader, "block size %d not in [%d, %d]", h.BlockSize, MinBlockSize, MaxBlockSize)
	case h.Kept < 1 || h.Kept > h.BlockSize:
		return errors.Wrapf(ErrCorruptHeader, "kept coefficients %d not in [1, %d]", h.Kept, h.BlockSize)
	case h.QuantBits < MinQuantBits || h.QuantBits > MaxQuantBits:
		return errors.Wrapf(ErrCorruptHeader, "quantization bits %d not in [%d, %d]", h.QuantBits, MinQuantBits, MaxQuantBits)
	}
	return nil
}

// Blocks returns the number of block records that follow the header.
func (h Header) Blocks() uint64 {
	return Blocks(h.TotalFrames, int(h.BlockSize))
}

// Size returns the size in bytes of the complete stream described by h.
func (h Header) Size() int64 {
	return EncodedSize(h.TotalFrames, int(h.BlockSize), int(h.Kept), int(h.QuantBits))
}

// writeHeader writes h to bw.
func writeHeader(bw *bits.BitWriter, h Header) error {
	fields := []struct {
		v uint64
		n int
	}{
		{uint64(h.SampleRate), sampleRateBits},
		{h.TotalFrames, totalFramesBits},
		{uint64(h.BlockSize), blockSizeBits},
		{uint64(h.Kept), keptBits},
		{uint64(h.QuantBits), quantBitsBits},
	}
	for _, f := range fields {
		err := bw.WriteBits(f.v, f.n)
		if err != nil {
			return errors.Wrap(err, "could not write header field")
		}
	}
	return nil
}

// readHeader reads a header from br. The header is not validated. A source
// too short to hold a header gives ErrCorruptHeader.
func readHeader(br *bits.BitReader) (Header, error) {
	var h Header
	fields := []struct {
		set func(uint64)
		n   int
	}{
		{func(v uint64) { h.SampleRate = uint32(v) }, sampleRateBits},
		{func(v uint64) { h.TotalFrames = v }, totalFramesBits},
		{func(v uint64) { h.BlockSize = uint16(v) }, blockSizeBits},
		{func(v uint64) { h.Kept = uint16(v) }, keptBits},
		{func(v uint64) { h.QuantBits = uint8(v) }, quantBitsBits},
	}
	for _, f := range fields {
		v, err := br.ReadBits(f.n)
		if errors.Is(err, bits.ErrUnexpectedEndOfStream) {
			return Header{}, errors.Wrapf(ErrCorruptHeader, "short header (%d of %d bytes)", br.BytesRead(), HeaderSize)
		}
		if err != nil {
			return Header{}, errors.Wrap(err, "could not read header field")
		}
		f.set(v)
	}
	return h, nil
}
