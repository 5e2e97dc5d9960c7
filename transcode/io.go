/*
NAME
  io.go

DESCRIPTION
  io.go provides the file inputs, outputs, sources and sinks used by the
  Transcoder.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package transcode

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/dctcodec/codec/codecutil"
	"github.com/ausocean/dctcodec/codec/dct"
	"github.com/ausocean/dctcodec/codec/flac"
	"github.com/ausocean/dctcodec/codec/pcm"
	"github.com/ausocean/dctcodec/codec/wav"
	"github.com/ausocean/dctcodec/transcode/config"
)

// Path meaning standard input or output.
const stdio = "-"

// Most samples preallocated when reading a whole source.
const maxPresize = 1 << 20

// nopCloser adds a no-op Close to an io.ReadSeeker.
type nopCloser struct{ io.ReadSeeker }

func (nopCloser) Close() error { return nil }

// openInput opens path for reading. Standard input is read into memory so
// that it can be seeked.
func openInput(path string) (io.ReadSeekCloser, error) {
	if path == stdio || path == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("could not read stdin: %w", err)
		}
		return nopCloser{bytes.NewReader(b)}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open input: %w", err)
	}
	return f, nil
}

// lazyFile is an io.WriteCloser that creates its file on first write, so
// that nothing is created when encoding fails before producing output.
type lazyFile struct {
	path string
	w    io.WriteCloser
}

func (l *lazyFile) Write(p []byte) (int, error) {
	if l.w == nil {
		if l.path == stdio || l.path == "" {
			l.w = nopWriteCloser{os.Stdout}
		} else {
			f, err := os.Create(l.path)
			if err != nil {
				return 0, fmt.Errorf("could not create output: %w", err)
			}
			l.w = f
		}
	}
	return l.w.Write(p)
}

func (l *lazyFile) Close() error {
	if l.w == nil {
		return nil
	}
	return l.w.Close()
}

// Discard closes and removes the file, if one was created. Data already
// written to stdout cannot be recalled.
func (l *lazyFile) Discard() error {
	f, ok := l.w.(*os.File)
	if !ok {
		return l.Close()
	}
	f.Close()
	return os.Remove(f.Name())
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// newSource returns a sample source of the given codec reading from r.
// Raw PCM takes its format from c.
func newSource(codec string, r io.ReadSeeker, c config.Config) (dct.Source, error) {
	switch codec {
	case codecutil.WAV:
		return wav.NewSource(r)
	case codecutil.FLAC:
		return flac.NewSource(r)
	case codecutil.PCM:
		if c.SampleRate == 0 {
			return nil, fmt.Errorf("%w: raw PCM input needs a sample rate", dct.ErrInvalidConfig)
		}
		size, err := r.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, fmt.Errorf("could not size input: %w", err)
		}
		_, err = r.Seek(0, io.SeekStart)
		if err != nil {
			return nil, fmt.Errorf("could not rewind input: %w", err)
		}
		format := pcm.BufferFormat{SFormat: pcm.S16_LE, Rate: c.SampleRate, Channels: c.Channels}
		return pcm.NewReader(r, format, pcm.FramesOf(size, format)), nil
	default:
		return nil, fmt.Errorf("%w for input: %q", ErrUnknownCodec, codec)
	}
}

// sampleSink is a dct.Sink that must be closed once decoding is done.
type sampleSink interface {
	dct.Sink
	io.Closer

	// Discard abandons the output, removing any partial file.
	Discard() error
}

// newSink returns a sample sink of the given codec writing to path.
func newSink(codec, path string, rate int) (sampleSink, error) {
	switch codec {
	case codecutil.WAV:
		if path == stdio || path == "" {
			ws := &wav.WriteSeeker{}
			return &memWAVSink{Sink: wav.NewSink(ws, rate), ws: ws}, nil
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("could not create output: %w", err)
		}
		return &fileWAVSink{Sink: wav.NewSink(f, rate), f: f}, nil
	case codecutil.PCM:
		out := &lazyFile{path: path}
		return &pcmSink{Writer: pcm.NewWriter(out), out: out}, nil
	default:
		return nil, fmt.Errorf("%w for output: %q", ErrUnknownCodec, codec)
	}
}

// memWAVSink builds a WAV file in memory and writes it to stdout on Close,
// since the headers are completed by seeking.
type memWAVSink struct {
	*wav.Sink
	ws *wav.WriteSeeker
}

func (s *memWAVSink) Close() error {
	err := s.Sink.Close()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(s.ws.Bytes())
	return err
}

// Discard drops the buffered file; nothing has reached stdout.
func (s *memWAVSink) Discard() error {
	s.ws.Reset()
	return nil
}

type fileWAVSink struct {
	*wav.Sink
	f *os.File
}

func (s *fileWAVSink) Close() error {
	err := s.Sink.Close()
	if err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// Discard removes the file without completing the WAV headers.
func (s *fileWAVSink) Discard() error {
	s.f.Close()
	return os.Remove(s.f.Name())
}

type pcmSink struct {
	*pcm.Writer
	out *lazyFile
}

func (s *pcmSink) Close() error { return s.out.Close() }

func (s *pcmSink) Discard() error { return s.out.Discard() }

// recorder is a dct.Sink that keeps a copy of every sample passed through it.
type recorder struct {
	dct.Sink
	samples []int16
}

func (r *recorder) WriteSamples(p []int16) (int, error) {
	n, err := r.Sink.WriteSamples(p)
	r.samples = append(r.samples, p[:n]...)
	return n, err
}

// readAll reads every sample from src.
func readAll(src dct.Source) ([]int16, error) {
	// The declared length only sizes the initial buffer, up to a limit, since
	// it comes from an untrusted header.
	samples := make([]int16, 0, min(src.Info().Frames, maxPresize))
	buf := make([]int16, 4096)
	for {
		n, err := src.ReadSamples(buf)
		samples = append(samples, buf[:n]...)
		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
