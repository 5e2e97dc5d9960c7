/*
NAME
  transcode_test.go

DESCRIPTION
  transcode_test.go provides testing of file encoding and decoding.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package transcode

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/dctcodec/codec/dct"
	"github.com/ausocean/dctcodec/codec/wav"
	"github.com/ausocean/dctcodec/transcode/config"
)

const (
	testRate   = 8000
	testFrames = 3000
)

func tone(n int) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = int16(math.Round(10000 * math.Sin(2*math.Pi*300*float64(i)/testRate)))
	}
	return s
}

func writeWAV(t *testing.T, path string, samples []int16) {
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("could not create wav: %v", err)
	}
	s := wav.NewSink(f, testRate)
	_, err = s.WriteSamples(samples)
	if err != nil {
		t.Fatalf("could not write wav: %v", err)
	}
	err = s.Close()
	if err != nil {
		t.Fatalf("could not close wav sink: %v", err)
	}
	err = f.Close()
	if err != nil {
		t.Fatalf("could not close wav: %v", err)
	}
}

func writePCM(t *testing.T, path string, samples []int16) {
	b := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(s))
	}
	err := os.WriteFile(path, b, 0644)
	if err != nil {
		t.Fatalf("could not write pcm: %v", err)
	}
}

func run(t *testing.T, c config.Config, decode bool) (Report, error) {
	c.Logger = (*logging.TestLogger)(t)
	c.LogLevel = logging.Debug
	tr, err := New(c)
	if err != nil {
		t.Fatalf("could not create transcoder: %v", err)
	}
	if decode {
		return tr.Decode()
	}
	return tr.Encode()
}

func TestWAVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	stream := filepath.Join(dir, "out.dct")
	out := filepath.Join(dir, "dec.wav")
	writeWAV(t, in, tone(testFrames))

	r, err := run(t, config.Config{InputPath: in, OutputPath: stream, BlockSize: 256, KeepFraction: 0.5, QuantBits: 10}, false)
	if err != nil {
		t.Fatalf("could not encode: %v", err)
	}
	wantSize := dct.EncodedSize(testFrames, 256, 128, 10)
	if r.Stats.Bytes != wantSize {
		t.Errorf("unexpected stream bytes, got: %d, want: %d", r.Stats.Bytes, wantSize)
	}
	fi, err := os.Stat(stream)
	if err != nil {
		t.Fatalf("could not stat stream: %v", err)
	}
	if fi.Size() != wantSize {
		t.Errorf("unexpected file size, got: %d, want: %d", fi.Size(), wantSize)
	}
	if r.ExpectedRatio() != dct.CompressionRatio(256, 128, 10) {
		t.Errorf("unexpected expected ratio: %v", r.ExpectedRatio())
	}
	wantRatio := float64(testFrames*2) / float64(wantSize)
	if r.ActualRatio() != wantRatio {
		t.Errorf("unexpected actual ratio, got: %v, want: %v", r.ActualRatio(), wantRatio)
	}

	r, err = run(t, config.Config{InputPath: stream, OutputPath: out, RefPath: in}, true)
	if err != nil {
		t.Fatalf("could not decode: %v", err)
	}
	if r.Stats.Frames != testFrames {
		t.Errorf("unexpected decoded frames, got: %d, want: %d", r.Stats.Frames, testFrames)
	}
	if r.Duration() != 375*time.Millisecond {
		t.Errorf("unexpected duration, got: %v, want: %v", r.Duration(), 375*time.Millisecond)
	}
	if r.Quality == nil {
		t.Fatal("expected reference comparison")
	}
	if r.Quality.SNR < 20 {
		t.Errorf("SNR too low: %.2f dB", r.Quality.SNR)
	}
}

func TestPCMRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pcm")
	stream := filepath.Join(dir, "out.dct")
	out := filepath.Join(dir, "dec.pcm")
	writePCM(t, in, tone(testFrames))

	_, err := run(t, config.Config{InputPath: in, OutputPath: stream}, false)
	if !errors.Is(err, dct.ErrInvalidConfig) {
		t.Errorf("unexpected error without sample rate, got: %v, want: %v", err, dct.ErrInvalidConfig)
	}

	r, err := run(t, config.Config{InputPath: in, OutputPath: stream, SampleRate: testRate}, false)
	if err != nil {
		t.Fatalf("could not encode: %v", err)
	}
	if r.Input.Frames != testFrames || r.Header.SampleRate != testRate {
		t.Errorf("unexpected input info: %+v", r.Input)
	}

	_, err = run(t, config.Config{InputPath: stream, OutputPath: out}, true)
	if err != nil {
		t.Fatalf("could not decode: %v", err)
	}
	fi, err := os.Stat(out)
	if err != nil {
		t.Fatalf("could not stat output: %v", err)
	}
	if fi.Size() != 2*testFrames {
		t.Errorf("unexpected output size, got: %d, want: %d", fi.Size(), 2*testFrames)
	}
}

// TestUnsupportedInput checks that stereo input is rejected without creating
// an output file.
func TestUnsupportedInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.raw")
	stream := filepath.Join(dir, "out.dct")
	writePCM(t, in, tone(testFrames))

	_, err := run(t, config.Config{InputPath: in, OutputPath: stream, SampleRate: testRate, Channels: 2}, false)
	if !errors.Is(err, dct.ErrUnsupportedInput) {
		t.Errorf("unexpected error, got: %v, want: %v", err, dct.ErrUnsupportedInput)
	}
	_, err = os.Stat(stream)
	if !os.IsNotExist(err) {
		t.Errorf("expected no output file, got stat error: %v", err)
	}
}

func TestUnknownCodec(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	err := os.WriteFile(in, []byte("hello"), 0644)
	if err != nil {
		t.Fatalf("could not write input: %v", err)
	}
	_, err = run(t, config.Config{InputPath: in, OutputPath: filepath.Join(dir, "out.dct")}, false)
	if !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("unexpected error, got: %v, want: %v", err, ErrUnknownCodec)
	}
}

func TestInvalidConfig(t *testing.T) {
	_, err := New(config.Config{Logger: (*logging.TestLogger)(t), BlockSize: 10})
	if !errors.Is(err, dct.ErrInvalidConfig) {
		t.Errorf("unexpected error, got: %v, want: %v", err, dct.ErrInvalidConfig)
	}
}

func TestCorruptStream(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.dct")
	err := os.WriteFile(in, make([]byte, dct.HeaderSize), 0644)
	if err != nil {
		t.Fatalf("could not write input: %v", err)
	}
	_, err = run(t, config.Config{InputPath: in, OutputPath: filepath.Join(dir, "out.wav")}, true)
	if !errors.Is(err, dct.ErrCorruptHeader) {
		t.Errorf("unexpected error, got: %v, want: %v", err, dct.ErrCorruptHeader)
	}
}

// TestTruncatedStreamOutput checks that no output file is left behind when
// the stream ends early.
func TestTruncatedStreamOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	stream := filepath.Join(dir, "out.dct")
	writeWAV(t, in, tone(testFrames))

	_, err := run(t, config.Config{InputPath: in, OutputPath: stream, BlockSize: 256}, false)
	if err != nil {
		t.Fatalf("could not encode: %v", err)
	}
	fi, err := os.Stat(stream)
	if err != nil {
		t.Fatalf("could not stat stream: %v", err)
	}
	err = os.Truncate(stream, fi.Size()-10)
	if err != nil {
		t.Fatalf("could not truncate stream: %v", err)
	}

	for _, name := range []string{"dec.wav", "dec.pcm"} {
		out := filepath.Join(dir, name)
		_, err = run(t, config.Config{InputPath: stream, OutputPath: out}, true)
		if !errors.Is(err, dct.ErrTruncatedStream) {
			t.Errorf("unexpected error for %s, got: %v, want: %v", name, err, dct.ErrTruncatedStream)
		}
		_, err = os.Stat(out)
		if !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed, got stat error: %v", name, err)
		}
	}
}

// TestShortInputOutput checks that a partial stream is removed when the input
// holds fewer frames than its header declares.
func TestShortInputOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	stream := filepath.Join(dir, "out.dct")
	writeWAV(t, in, tone(testFrames))
	err := os.Truncate(in, 2044)
	if err != nil {
		t.Fatalf("could not truncate input: %v", err)
	}

	_, err = run(t, config.Config{InputPath: in, OutputPath: stream, BlockSize: 256}, false)
	if err == nil {
		t.Fatal("expected error encoding short input")
	}
	_, err = os.Stat(stream)
	if !os.IsNotExist(err) {
		t.Errorf("expected stream to be removed, got stat error: %v", err)
	}
}

// countSource declares a length far beyond the samples it holds.
type countSource struct {
	frames uint64
	left   int
}

func (s *countSource) Info() dct.StreamInfo {
	return dct.StreamInfo{SampleRate: testRate, Frames: s.frames, Channels: 1, BitDepth: 16}
}

func (s *countSource) ReadSamples(p []int16) (int, error) {
	if s.left == 0 {
		return 0, io.EOF
	}
	n := min(len(p), s.left)
	for i := range p[:n] {
		p[i] = int16(i)
	}
	s.left -= n
	return n, nil
}

func TestReadAllDeclaredLength(t *testing.T) {
	got, err := readAll(&countSource{frames: 1 << 62, left: 10})
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if len(got) != 10 {
		t.Errorf("unexpected sample count, got: %d, want: 10", len(got))
	}
	if cap(got) > maxPresize {
		t.Errorf("buffer presized to %d samples", cap(got))
	}
}
