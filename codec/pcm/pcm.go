/*
NAME
  pcm.go

DESCRIPTION
  pcm.go contains the raw PCM sample formats and a sample source and sink for
  raw little-endian PCM byte streams.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pcm provides a sample source and sink for raw pcm audio.
package pcm

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/dctcodec/codec/dct"
)

// SampleFormat is the format that PCM samples can be in.
type SampleFormat int

// Used to represent an unknown format.
const (
	Unknown SampleFormat = -1
)

// Sample formats that we use.
const (
	S16_LE SampleFormat = iota
	S32_LE
	// There are many more:
	// https://linux.die.net/man/1/arecord
	// https://trac.ffmpeg.org/wiki/audio%20types
)

// BufferFormat contains the format of raw PCM data.
type BufferFormat struct {
	SFormat  SampleFormat
	Rate     uint
	Channels uint
}

// BitDepth returns the number of bits in a sample of format f, or 0 if f is
// unknown.
func (f SampleFormat) BitDepth() int {
	switch f {
	case S16_LE:
		return 16
	case S32_LE:
		return 32
	default:
		return 0
	}
}

// String returns the string representation of a SampleFormat.
func (f SampleFormat) String() string {
	switch f {
	case S16_LE:
		return "S16_LE"
	case S32_LE:
		return "S32_LE"
	default:
		return "Unknown"
	}
}

// SFFromString takes a string representing a sample format and returns the corresponding SampleFormat.
func SFFromString(s string) (SampleFormat, error) {
	switch s {
	case "S16_LE":
		return S16_LE, nil
	case "S32_LE":
		return S32_LE, nil
	default:
		return Unknown, errors.Errorf("unknown sample format (%s)", s)
	}
}

// FrameSize returns the number of bytes in one frame of the format, i.e. one
// sample for every channel.
func (f BufferFormat) FrameSize() int {
	return f.SFormat.BitDepth() / 8 * int(f.Channels)
}

// Reader is a sample source reading raw PCM from an io.Reader. Only mono
// S16_LE data can be read as samples; other formats are described by Info so
// that an encoder can reject them.
type Reader struct {
	r      io.Reader
	format BufferFormat
	frames uint64
	buf    []byte
}

// NewReader returns a new Reader of r, which holds frames frames of PCM in the
// given format.
func NewReader(r io.Reader, format BufferFormat, frames uint64) *Reader {
	return &Reader{r: r, format: format, frames: frames}
}

// FramesOf returns the number of whole frames in size bytes of PCM of the
// given format.
func FramesOf(size int64, format BufferFormat) uint64 {
	fs := format.FrameSize()
	if fs <= 0 || size <= 0 {
		return 0
	}
	return uint64(size) / uint64(fs)
}

// Info implements dct.Source.
func (r *Reader) Info() dct.StreamInfo {
	return dct.StreamInfo{
		SampleRate: uint32(r.format.Rate),
		Frames:     r.frames,
		Channels:   int(r.format.Channels),
		BitDepth:   r.format.SFormat.BitDepth(),
	}
}

// ReadSamples implements dct.Source. A trailing odd byte is ignored.
func (r *Reader) ReadSamples(p []int16) (int, error) {
	if r.format.SFormat != S16_LE || r.format.Channels != 1 {
		return 0, errors.Errorf("cannot read samples of %d channel %v", r.format.Channels, r.format.SFormat)
	}
	if len(p) == 0 {
		return 0, nil
	}
	size := 2 * len(p)
	if cap(r.buf) < size {
		r.buf = make([]byte, size)
	}
	n, err := io.ReadFull(r.r, r.buf[:size])
	if err == io.ErrUnexpectedEOF {
		err = nil
	}
	for i := 0; i < n/2; i++ {
		p[i] = int16(binary.LittleEndian.Uint16(r.buf[2*i:]))
	}
	if n/2 == 0 && err == nil {
		err = io.EOF
	}
	return n / 2, err
}

// Writer is a sample sink writing mono S16_LE PCM to an io.Writer.
type Writer struct {
	w   io.Writer
	buf []byte
}

// NewWriter returns a new Writer to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteSamples implements dct.Sink.
func (w *Writer) WriteSamples(p []int16) (int, error) {
	size := 2 * len(p)
	if cap(w.buf) < size {
		w.buf = make([]byte, size)
	}
	b := w.buf[:size]
	for i, s := range p {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(s))
	}
	n, err := w.w.Write(b)
	return n / 2, err
}
