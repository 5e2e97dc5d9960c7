/*
DESCRIPTION
  dctenc encodes WAV, FLAC or raw PCM audio to a lossy DCT stream.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// dctenc encodes mono 16-bit audio to a DCT stream.
//
// Usage:
//
//	dctenc [flags] input.{wav,flac,pcm} output.dct
//
// A path of "-" means stdin or stdout. Raw PCM input needs -rate.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/dctcodec/codec/dct"
	"github.com/ausocean/dctcodec/transcode"
	"github.com/ausocean/dctcodec/transcode/config"
)

// Current software version.
const version = "v1.0.0"

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logSuppress  = true
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version")
		verbose     = flag.Bool("v", false, "verbose logging and report")
		cfgPath     = flag.String("config", "", "path to a JSON config file")
		logPath     = flag.String("log", "", "path to a rotated log file")
		blockSize   = flag.Uint("bs", dct.DefaultBlockSize, "block size in samples")
		keep        = flag.Float64("frac", dct.DefaultKeepFraction, "fraction of coefficients kept per block")
		quantBits   = flag.Uint("qbits", dct.DefaultQuantBits, "bits per quantized coefficient")
		rate        = flag.Uint("rate", 0, "sample rate of raw PCM input")
		channels    = flag.Uint("channels", 1, "channels of raw PCM input")
		codec       = flag.String("format", "", "input format (wav, flac or pcm); derived from the input extension if unset")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] input output.dct\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	vars := map[string]string{}
	if *cfgPath != "" {
		var err error
		vars, err = config.ReadFile(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	// Explicit flags override the config file.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	setVar := func(flagName, key, value string) {
		if _, ok := vars[key]; !ok || set[flagName] {
			vars[key] = value
		}
	}
	setVar("bs", config.KeyBlockSize, strconv.FormatUint(uint64(*blockSize), 10))
	setVar("frac", config.KeyKeepFraction, strconv.FormatFloat(*keep, 'f', -1, 64))
	setVar("qbits", config.KeyQuantBits, strconv.FormatUint(uint64(*quantBits), 10))
	setVar("rate", config.KeySampleRate, strconv.FormatUint(uint64(*rate), 10))
	setVar("channels", config.KeyChannels, strconv.FormatUint(uint64(*channels), 10))
	setVar("format", config.KeyInputCodec, *codec)
	setVar("log", config.KeyLogPath, *logPath)
	vars[config.KeyInputPath] = flag.Arg(0)
	vars[config.KeyOutputPath] = flag.Arg(1)
	if *verbose {
		vars[config.KeyLogging] = "Debug"
	}

	log := newLogger(vars[config.KeyLogPath], *verbose)
	log.Debug("starting dctenc", "version", version)

	cfg := config.Config{Logger: log, LogLevel: logging.Info}
	err := cfg.Update(vars)
	if err != nil {
		log.Fatal("bad config", "error", err.Error())
	}
	tr, err := transcode.New(cfg)
	if err != nil {
		log.Fatal("could not initialise encoder", "error", err.Error())
	}

	r, err := tr.Encode()
	if err != nil {
		log.Fatal("encoding failed", "error", err.Error())
	}

	if *verbose {
		c := tr.Config()
		fmt.Fprintf(os.Stderr, "input:             %s\n", c.InputPath)
		fmt.Fprintf(os.Stderr, "sample rate:       %d Hz\n", r.Header.SampleRate)
		fmt.Fprintf(os.Stderr, "frames:            %d (%.2f s)\n", r.Stats.Frames, r.Duration().Seconds())
		fmt.Fprintf(os.Stderr, "block size:        %d\n", r.Header.BlockSize)
		fmt.Fprintf(os.Stderr, "kept coefficients: %d\n", r.Header.Kept)
		fmt.Fprintf(os.Stderr, "quantization bits: %d\n", r.Header.QuantBits)
		fmt.Fprintf(os.Stderr, "expected ratio:    %.2f:1\n", r.ExpectedRatio())
		fmt.Fprintf(os.Stderr, "blocks:            %d\n", r.Stats.Blocks)
		fmt.Fprintf(os.Stderr, "bytes written:     %d\n", r.Stats.Bytes)
		fmt.Fprintf(os.Stderr, "actual ratio:      %.2f:1\n", r.ActualRatio())
	}
}

// newLogger returns a logger writing to stderr and, if path is set, to a
// rotated log file.
func newLogger(path string, verbose bool) logging.Logger {
	var w io.Writer = os.Stderr
	if path != "" {
		fileLog := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		}
		w = io.MultiWriter(os.Stderr, fileLog)
	}
	var level int8 = logging.Info
	if verbose {
		level = logging.Debug
	}
	return logging.New(level, w, logSuppress)
}
