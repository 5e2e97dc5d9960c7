/*
NAME
  wav.go

DESCRIPTION
  wav.go provides a sample source and sink for WAV audio.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package wav provides a sample source and sink for WAV audio.
package wav

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ausocean/dctcodec/codec/dct"
)

const PCMFormat = 1 // PCMFormat defines the value for pcm audio as defined by the wav std.

// Bit depth of the samples written by a Sink.
const sinkBitDepth = 16

var (
	errInvalidFile     = errors.New("invalid wav file")
	errInvalidFormat   = errors.New("invalid or no format defined")
	errInvalidRate     = errors.New("invalid or no sample rate defined")
	errInvalidChannels = errors.New("invalid or no number of channels defined")
	errInvalidBitDepth = errors.New("invalid or no bit depth defined")
)

// Metadata defines the format of the audio in a WAV file.
type Metadata struct {
	AudioFormat int
	Channels    int
	SampleRate  int
	BitDepth    int
}

// validate checks that m describes readable PCM audio.
func (m Metadata) validate() error {
	switch {
	case m.AudioFormat != PCMFormat:
		return errInvalidFormat
	case m.Channels <= 0:
		return errInvalidChannels
	case m.SampleRate <= 0:
		return errInvalidRate
	case m.BitDepth <= 0 || m.BitDepth%8 != 0:
		return errInvalidBitDepth
	}
	return nil
}

// Source is a sample source reading a WAV file. Sources of any PCM format can
// be created, so that an encoder can report unsupported input, but samples can
// only be read from mono 16-bit files.
type Source struct {
	dec    *wav.Decoder
	buf    *audio.IntBuffer
	md     Metadata
	frames uint64
}

// NewSource returns a new Source reading from r. The WAV headers are read and
// r is left at the start of the PCM data.
func NewSource(r io.ReadSeeker) (*Source, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: %v", errInvalidFile, d.Err())
	}
	err := d.FwdToPCM()
	if err != nil {
		return nil, fmt.Errorf("could not find PCM data: %w", err)
	}

	md := Metadata{
		AudioFormat: int(d.WavAudioFormat),
		Channels:    int(d.NumChans),
		SampleRate:  int(d.SampleRate),
		BitDepth:    int(d.BitDepth),
	}
	err = md.validate()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dct.ErrUnsupportedInput, err)
	}

	return &Source{
		dec:    d,
		buf:    &audio.IntBuffer{Format: d.Format(), SourceBitDepth: md.BitDepth},
		md:     md,
		frames: uint64(d.PCMLen()) / uint64(md.BitDepth/8*md.Channels),
	}, nil
}

// Metadata returns the format of the WAV file.
func (s *Source) Metadata() Metadata { return s.md }

// Info implements dct.Source.
func (s *Source) Info() dct.StreamInfo {
	return dct.StreamInfo{
		SampleRate: uint32(s.md.SampleRate),
		Frames:     s.frames,
		Channels:   s.md.Channels,
		BitDepth:   s.md.BitDepth,
	}
}

// ReadSamples implements dct.Source.
func (s *Source) ReadSamples(p []int16) (int, error) {
	if s.md.Channels != 1 || s.md.BitDepth != 16 {
		return 0, fmt.Errorf("cannot read samples of %d channel %d-bit audio", s.md.Channels, s.md.BitDepth)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if cap(s.buf.Data) < len(p) {
		s.buf.Data = make([]int, len(p))
	}
	s.buf.Data = s.buf.Data[:len(p)]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil {
		return 0, fmt.Errorf("could not read PCM: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	for i, v := range s.buf.Data[:n] {
		p[i] = int16(v)
	}
	return n, nil
}

// Sink is a sample sink writing a mono 16-bit WAV file. Close must be called
// to complete the file headers.
type Sink struct {
	enc   *wav.Encoder
	buf   *audio.IntBuffer
	wrote bool
}

// NewSink returns a new Sink writing to w at the given sample rate.
func NewSink(w io.WriteSeeker, sampleRate int) *Sink {
	return &Sink{
		enc: wav.NewEncoder(w, sampleRate, sinkBitDepth, 1, PCMFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
			SourceBitDepth: sinkBitDepth,
		},
	}
}

// WriteSamples implements dct.Sink.
func (s *Sink) WriteSamples(p []int16) (int, error) {
	s.buf.Data = s.buf.Data[:0]
	for _, v := range p {
		s.buf.Data = append(s.buf.Data, int(v))
	}
	err := s.enc.Write(s.buf)
	if err != nil {
		return 0, fmt.Errorf("could not write PCM: %w", err)
	}
	s.wrote = true
	return len(p), nil
}

// Close writes the final WAV headers. The destination is not closed.
func (s *Sink) Close() error {
	if !s.wrote {
		// Make sure headers exist even for an empty file.
		_, err := s.WriteSamples(nil)
		if err != nil {
			return err
		}
	}
	return s.enc.Close()
}
