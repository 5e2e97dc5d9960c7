/*
NAME
  config.go

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

// Package config contains the configuration settings for encoding and
// decoding DCT audio streams.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ausocean/dctcodec/codec/dct"
	"github.com/ausocean/utils/logging"
)

// Config provides parameters relevant to a transcode. A new config must be
// passed to the constructor. Default values for these fields are defined as
// consts in variables.go.
type Config struct {
	// Logger holds an implementation of the Logger interface as defined in
	// logging.go. This must be set for logging to work.
	Logger logging.Logger

	// LogLevel is the logging verbosity level.
	// Valid values are defined by enums from the logger package: logging.Debug,
	// logging.Info, logging.Warning, logging.Error, logging.Fatal.
	LogLevel int8

	LogPath string // Path of a rotated log file, if any.

	BlockSize    uint    // Samples per block, N.
	KeepFraction float64 // Fraction of coefficients kept per block.
	QuantBits    uint    // Bits per quantized coefficient, Q.

	InputPath   string // Input file path, "-" for stdin.
	InputCodec  string // Input codec, see codecutil. Derived from InputPath if unset.
	OutputPath  string // Output file path, "-" for stdout.
	OutputCodec string // Output codec, see codecutil. Derived from OutputPath if unset.

	// SampleRate and Channels describe raw PCM input, which carries no header.
	SampleRate uint
	Channels   uint

	RefPath string // Reference audio compared against decoded output.
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined. Set but out of range codec
// parameters return an error wrapping dct.ErrInvalidConfig.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate == nil {
			continue
		}
		err := v.Validate(c)
		if err != nil {
			return errors.Wrapf(dct.ErrInvalidConfig, "%s: %v", v.Name, err)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate. A codec parameter that cannot
// be parsed, or is explicitly zero, gives an error wrapping dct.ErrInvalidConfig;
// the remaining variables are still applied.
func (c *Config) Update(vars map[string]string) error {
	var first error
	for _, value := range Variables {
		v, ok := vars[value.Name]
		if !ok || value.Update == nil {
			continue
		}
		err := value.Update(c, v)
		if err != nil && first == nil {
			first = errors.Wrapf(dct.ErrInvalidConfig, "%s: %v", value.Name, err)
		}
	}
	return first
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// CodecConfig returns the encoder parameters held by c.
func (c *Config) CodecConfig() dct.Config {
	return dct.Config{
		BlockSize:    int(c.BlockSize),
		KeepFraction: c.KeepFraction,
		QuantBits:    int(c.QuantBits),
	}
}

// ReadFile reads a JSON object of configuration variables from path, for use
// with Update. Non string values are converted to their text form.
func ReadFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read config file")
	}
	var raw map[string]interface{}
	err = json.Unmarshal(b, &raw)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse config file %s", path)
	}
	vars := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case float64:
			vars[k] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			vars[k] = fmt.Sprint(v)
		}
	}
	return vars, nil
}
