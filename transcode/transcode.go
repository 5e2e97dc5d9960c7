/*
NAME
  transcode.go

DESCRIPTION
  transcode.go provides the Transcoder, which connects audio files to the DCT
  encoder and decoder based on a Config.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package transcode provides an API for encoding audio files to DCT streams
// and decoding them back.
package transcode

import (
	"errors"
	"fmt"
	"time"

	"github.com/ausocean/dctcodec/codec/codecutil"
	"github.com/ausocean/dctcodec/codec/dct"
	"github.com/ausocean/dctcodec/transcode/config"
)

// Bytes per sample of the supported input.
const sampleBytes = 2

var ErrUnknownCodec = errors.New("unknown codec")

// Report describes a completed Encode or Decode.
type Report struct {
	Header  dct.Header     // Stream parameters.
	Stats   dct.Stats      // Frames, blocks and stream bytes processed.
	Quality *dct.Quality   // Error against a reference, if one was given.
	Input   dct.StreamInfo // Source description, for Encode only.
}

// ExpectedRatio returns the compression ratio implied by the stream
// parameters, ignoring per-block scales and the header.
func (r Report) ExpectedRatio() float64 {
	return dct.CompressionRatio(int(r.Header.BlockSize), int(r.Header.Kept), int(r.Header.QuantBits))
}

// ActualRatio returns raw 16-bit size over stream size, or zero for an empty
// stream.
func (r Report) ActualRatio() float64 {
	if r.Stats.Bytes == 0 {
		return 0
	}
	return float64(r.Stats.Frames*sampleBytes) / float64(r.Stats.Bytes)
}

// Duration returns the length of the audio processed.
func (r Report) Duration() time.Duration {
	if r.Header.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(r.Stats.Frames) / float64(r.Header.SampleRate) * float64(time.Second))
}

// Transcoder encodes or decodes files as directed by its Config.
type Transcoder struct {
	cfg config.Config
}

// New returns a pointer to a new Transcoder with the desired configuration,
// and/or an error if the configuration is invalid.
func New(c config.Config) (*Transcoder, error) {
	var t Transcoder
	err := t.setConfig(c)
	if err != nil {
		return nil, fmt.Errorf("could not set config: %w", err)
	}
	return &t, nil
}

// Config returns a copy of the transcoder's current config.
func (t *Transcoder) Config() config.Config {
	return t.cfg
}

// setConfig takes a config, checks its validity and then replaces the current
// config.
func (t *Transcoder) setConfig(c config.Config) error {
	c.Logger.Debug("validating config")
	err := c.Validate()
	if err != nil {
		return fmt.Errorf("config struct is bad: %w", err)
	}
	c.Logger.Debug("config validated")
	c.Logger.SetLevel(c.LogLevel)
	t.cfg = c
	return nil
}

// Encode encodes the configured input file to a DCT stream at the configured
// output. The output is only created once the encoder has accepted the input,
// and is removed if encoding fails part way.
func (t *Transcoder) Encode() (Report, error) {
	c := t.cfg
	in, err := openInput(c.InputPath)
	if err != nil {
		return Report{}, err
	}
	defer in.Close()

	src, err := newSource(c.InputCodec, in, c)
	if err != nil {
		return Report{}, err
	}
	info := src.Info()
	c.Logger.Info("encoding", "input", c.InputPath, "codec", c.InputCodec, "rate", info.SampleRate,
		"frames", info.Frames, "channels", info.Channels, "bitDepth", info.BitDepth)

	out := &lazyFile{path: c.OutputPath}
	enc, err := dct.NewEncoder(out, c.CodecConfig(), c.Logger)
	if err != nil {
		return Report{}, fmt.Errorf("could not create encoder: %w", err)
	}
	stats, err := enc.Encode(src)
	if err != nil {
		out.Discard()
		return Report{}, fmt.Errorf("could not encode %s: %w", c.InputPath, err)
	}
	err = out.Close()
	if err != nil {
		return Report{}, fmt.Errorf("could not close output: %w", err)
	}

	cc := c.CodecConfig()
	return Report{
		Header: dct.Header{
			SampleRate:  info.SampleRate,
			TotalFrames: info.Frames,
			BlockSize:   uint16(cc.BlockSize),
			Kept:        uint16(cc.Kept()),
			QuantBits:   uint8(cc.QuantBits),
		},
		Stats: stats,
		Input: info,
	}, nil
}

// Decode decodes the configured DCT stream to the configured output, and
// compares the result with the reference file if one is configured. The
// output is removed if the stream is truncated or otherwise fails to decode.
func (t *Transcoder) Decode() (Report, error) {
	c := t.cfg
	in, err := openInput(c.InputPath)
	if err != nil {
		return Report{}, err
	}
	defer in.Close()

	dec, err := dct.NewDecoder(in, c.Logger)
	if err != nil {
		return Report{}, fmt.Errorf("could not create decoder: %w", err)
	}
	defer dec.Close()
	h := dec.Header()

	codec := c.OutputCodec
	if codec == "" {
		codec = codecutil.WAV
	}
	sink, err := newSink(codec, c.OutputPath, int(h.SampleRate))
	if err != nil {
		return Report{}, err
	}

	var rec *recorder
	var dst dct.Sink = sink
	if c.RefPath != "" {
		rec = &recorder{Sink: sink}
		dst = rec
	}

	stats, err := dec.Decode(dst)
	if err != nil {
		sink.Discard()
		return Report{}, fmt.Errorf("could not decode %s: %w", c.InputPath, err)
	}
	err = sink.Close()
	if err != nil {
		return Report{}, fmt.Errorf("could not close output: %w", err)
	}

	r := Report{Header: h, Stats: stats}
	if rec != nil {
		q, err := compareRef(c, rec.samples)
		if err != nil {
			return r, fmt.Errorf("could not compare with reference: %w", err)
		}
		c.Logger.Info("reference comparison", "snr", q.SNR, "rmse", q.RMSE, "maxErr", q.MaxErr)
		r.Quality = &q
	}
	return r, nil
}

// compareRef reads all samples of the reference file and compares them with
// got.
func compareRef(c config.Config, got []int16) (dct.Quality, error) {
	f, err := openInput(c.RefPath)
	if err != nil {
		return dct.Quality{}, err
	}
	defer f.Close()

	src, err := newSource(codecutil.FromPath(c.RefPath), f, c)
	if err != nil {
		return dct.Quality{}, err
	}
	ref, err := readAll(src)
	if err != nil {
		return dct.Quality{}, err
	}
	return dct.Compare(ref, got)
}
