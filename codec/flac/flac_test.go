/*
NAME
  flac_test.go

DESCRIPTION
  flac_test.go provides testing of the FLAC sample source.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package flac

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/ausocean/dctcodec/codec/dct"
)

// fakeFrames yields mono frames holding the given sample blocks.
type fakeFrames struct {
	blocks [][]int32
}

func (f *fakeFrames) ParseNext() (*frame.Frame, error) {
	if len(f.blocks) == 0 {
		return nil, io.EOF
	}
	b := f.blocks[0]
	f.blocks = f.blocks[1:]
	return &frame.Frame{Subframes: []*frame.Subframe{{Samples: b, NSamples: len(b)}}}, nil
}

func TestReadSamples(t *testing.T) {
	blocks := [][]int32{{1, 2, 3, 4, 5}, {-6, -7}, {8, 9, 10, 11}}
	s := &Source{
		frames: &fakeFrames{blocks: blocks},
		info:   dct.StreamInfo{SampleRate: 8000, Frames: 11, Channels: 1, BitDepth: 16},
	}

	var got []int16
	buf := make([]int16, 3)
	for {
		n, err := s.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("did not expect error: %v", err)
		}
	}

	want := []int16{1, 2, 3, 4, 5, -6, -7, 8, 9, 10, 11}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected samples (-want +got):\n%s", diff)
	}
}

func TestReadSamplesStereo(t *testing.T) {
	s := &Source{
		frames: &fakeFrames{blocks: [][]int32{{1, 2}}},
		info:   dct.StreamInfo{SampleRate: 8000, Frames: 2, Channels: 2, BitDepth: 16},
	}
	_, err := s.ReadSamples(make([]int16, 2))
	if err == nil {
		t.Error("expected error reading stereo samples")
	}
}

func TestInvalidStream(t *testing.T) {
	_, err := NewSource(bytes.NewReader([]byte("RIFF....WAVEfmt ")))
	if err == nil {
		t.Error("expected error for non FLAC input")
	}
}

func TestStreamInfo(t *testing.T) {
	got, err := streamInfo(&meta.StreamInfo{SampleRate: 44100, NChannels: 1, BitsPerSample: 16, NSamples: 1000})
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	want := dct.StreamInfo{SampleRate: 44100, Frames: 1000, Channels: 1, BitDepth: 16}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected info (-want +got):\n%s", diff)
	}

	_, err = streamInfo(&meta.StreamInfo{SampleRate: 44100, NChannels: 1, BitsPerSample: 16})
	if !errors.Is(err, dct.ErrUnsupportedInput) {
		t.Errorf("unexpected error for unknown length, got: %v, want: %v", err, dct.ErrUnsupportedInput)
	}
}
