/*
DESCRIPTION
  dctdec decodes a lossy DCT stream to WAV or raw PCM audio.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// dctdec decodes a DCT stream to mono 16-bit audio.
//
// Usage:
//
//	dctdec [flags] input.dct output.{wav,pcm}
//
// A path of "-" means stdin or stdout; WAV is written unless the output
// extension or -format selects raw PCM. With -ref the decoded audio is
// compared with the original and the signal to noise ratio is reported.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

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
		codec       = flag.String("format", "", "output format (wav or pcm); derived from the output extension if unset")
		refPath     = flag.String("ref", "", "original audio to compare the decoded output with")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] input.dct output\n", os.Args[0])
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
	if *logPath != "" {
		vars[config.KeyLogPath] = *logPath
	}
	if *codec != "" {
		vars[config.KeyOutputCodec] = *codec
	}
	if *refPath != "" {
		vars[config.KeyRefPath] = *refPath
	}
	if *verbose {
		vars[config.KeyLogging] = "Debug"
	}
	vars[config.KeyInputPath] = flag.Arg(0)
	vars[config.KeyOutputPath] = flag.Arg(1)

	var w io.Writer = os.Stderr
	if p := vars[config.KeyLogPath]; p != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   p,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		})
	}
	var level int8 = logging.Info
	if *verbose {
		level = logging.Debug
	}
	log := logging.New(level, w, logSuppress)
	log.Debug("starting dctdec", "version", version)

	cfg := config.Config{Logger: log, LogLevel: logging.Info}
	err := cfg.Update(vars)
	if err != nil {
		log.Fatal("bad config", "error", err.Error())
	}
	tr, err := transcode.New(cfg)
	if err != nil {
		log.Fatal("could not initialise decoder", "error", err.Error())
	}

	r, err := tr.Decode()
	if err != nil {
		log.Fatal("decoding failed", "error", err.Error())
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "sample rate:       %d Hz\n", r.Header.SampleRate)
		fmt.Fprintf(os.Stderr, "frames:            %d (%.2f s)\n", r.Stats.Frames, r.Duration().Seconds())
		fmt.Fprintf(os.Stderr, "block size:        %d\n", r.Header.BlockSize)
		fmt.Fprintf(os.Stderr, "kept coefficients: %d\n", r.Header.Kept)
		fmt.Fprintf(os.Stderr, "quantization bits: %d\n", r.Header.QuantBits)
		fmt.Fprintf(os.Stderr, "blocks:            %d\n", r.Stats.Blocks)
		fmt.Fprintf(os.Stderr, "bytes read:        %d\n", r.Stats.Bytes)
		fmt.Fprintf(os.Stderr, "ratio:             %.2f:1\n", r.ActualRatio())
	}
	if r.Quality != nil {
		fmt.Fprintf(os.Stderr, "snr: %.2f dB, rmse: %.2f, max error: %.0f\n", r.Quality.SNR, r.Quality.RMSE, r.Quality.MaxErr)
	}
}
