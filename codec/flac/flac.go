/*
NAME
  flac.go

DESCRIPTION
  flac.go provides a sample source for FLAC compressed audio.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package flac provides a sample source for FLAC compressed audio.
package flac

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/ausocean/dctcodec/codec/dct"
)

// frameParser yields successive decoded FLAC frames, returning io.EOF at the
// end of the stream.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

// Source is a sample source decoding a FLAC stream. Samples can only be read
// from mono 16-bit streams.
type Source struct {
	frames frameParser
	info   dct.StreamInfo
	pend   []int32 // Decoded samples not yet returned.
}

// NewSource returns a new Source decoding from r. The stream info block is
// parsed immediately.
func NewSource(r io.Reader) (*Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse FLAC: %w", err)
	}
	info, err := streamInfo(stream.Info)
	if err != nil {
		return nil, err
	}
	return &Source{frames: stream, info: info}, nil
}

// streamInfo converts a FLAC STREAMINFO block. A stream of unknown length
// cannot be encoded, since the frame count is needed up front.
func streamInfo(si *meta.StreamInfo) (dct.StreamInfo, error) {
	if si.NSamples == 0 {
		return dct.StreamInfo{}, fmt.Errorf("%w: FLAC stream of unknown length", dct.ErrUnsupportedInput)
	}
	return dct.StreamInfo{
		SampleRate: si.SampleRate,
		Frames:     si.NSamples,
		Channels:   int(si.NChannels),
		BitDepth:   int(si.BitsPerSample),
	}, nil
}

// Info implements dct.Source.
func (s *Source) Info() dct.StreamInfo { return s.info }

// ReadSamples implements dct.Source.
func (s *Source) ReadSamples(p []int16) (int, error) {
	if s.info.Channels != 1 || s.info.BitDepth != 16 {
		return 0, fmt.Errorf("cannot read samples of %d channel %d-bit audio", s.info.Channels, s.info.BitDepth)
	}

	var n int
	for n < len(p) {
		if len(s.pend) == 0 {
			f, err := s.frames.ParseNext()
			if err == io.EOF {
				if n == 0 {
					return 0, io.EOF
				}
				return n, nil
			}
			if err != nil {
				return n, fmt.Errorf("could not parse frame: %w", err)
			}
			s.pend = f.Subframes[0].Samples[:f.Subframes[0].NSamples]
			continue
		}

		c := min(len(p)-n, len(s.pend))
		for i, v := range s.pend[:c] {
			p[n+i] = int16(v)
		}
		n += c
		s.pend = s.pend[c:]
	}
	return n, nil
}
