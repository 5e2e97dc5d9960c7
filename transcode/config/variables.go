/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/ausocean/dctcodec/codec/codecutil"
	"github.com/ausocean/dctcodec/codec/dct"
	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyBlockSize    = "BlockSize"
	KeyChannels     = "Channels"
	KeyInputCodec   = "InputCodec"
	KeyInputPath    = "InputPath"
	KeyKeepFraction = "KeepFraction"
	KeyLogging      = "logging"
	KeyLogPath      = "LogPath"
	KeyOutputCodec  = "OutputCodec"
	KeyOutputPath   = "OutputPath"
	KeyQuantBits    = "QuantBits"
	KeyRefPath      = "RefPath"
	KeySampleRate   = "SampleRate"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeFloat  = "float"
)

// Default variable values.
const (
	defaultVerbosity    = logging.Info
	defaultBlockSize    = dct.DefaultBlockSize
	defaultKeepFraction = dct.DefaultKeepFraction
	defaultQuantBits    = dct.DefaultQuantBits
	defaultChannels     = 1
)

// Variables describes the variables that can be used for transcode control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the
// variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string) error
	Validate func(*Config) error
}{
	{
		Name:   KeyBlockSize,
		Type:   typeUint,
		Update: func(c *Config, v string) (err error) {
			c.BlockSize, err = parseSetUint(KeyBlockSize, v, c)
			return err
		},
		Validate: func(c *Config) error {
			switch {
			case c.BlockSize == 0:
				c.LogInvalidField(KeyBlockSize, defaultBlockSize)
				c.BlockSize = defaultBlockSize
			case c.BlockSize < dct.MinBlockSize || c.BlockSize > dct.MaxBlockSize:
				return fmt.Errorf("%d not in [%d, %d]", c.BlockSize, dct.MinBlockSize, dct.MaxBlockSize)
			}
			return nil
		},
	},
	{
		Name:   KeyChannels,
		Type:   typeUint,
		Update: func(c *Config, v string) (err error) {
			c.Channels, err = parseSetUint(KeyChannels, v, c)
			return err
		},
		Validate: func(c *Config) error {
			if c.Channels == 0 {
				c.LogInvalidField(KeyChannels, defaultChannels)
				c.Channels = defaultChannels
			}
			return nil
		},
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) error { c.InputPath = v; return nil },
	},
	{
		Name:     KeyInputCodec,
		Type:     "enum:" + codecutil.PCM + "," + codecutil.WAV + "," + codecutil.FLAC + "," + codecutil.DCT,
		Update:   func(c *Config, v string) error { c.InputCodec = v; return nil },
		Validate: func(c *Config) error { return validateCodec(&c.InputCodec, c.InputPath) },
	},
	{
		Name:   KeyKeepFraction,
		Type:   typeFloat,
		Update: func(c *Config, v string) (err error) {
			c.KeepFraction, err = parseFloat(KeyKeepFraction, v, c)
			if err == nil && !(c.KeepFraction > 0) {
				err = fmt.Errorf("%v not in (0, 1]", c.KeepFraction)
			}
			return err
		},
		Validate: func(c *Config) error {
			switch {
			case c.KeepFraction == 0:
				c.LogInvalidField(KeyKeepFraction, defaultKeepFraction)
				c.KeepFraction = defaultKeepFraction
			case math.IsNaN(c.KeepFraction) || c.KeepFraction < 0 || c.KeepFraction > 1:
				return fmt.Errorf("%v not in (0, 1]", c.KeepFraction)
			}
			return nil
		},
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) error {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
			return nil
		},
		Validate: func(c *Config) error {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
			return nil
		},
	},
	{
		Name:   KeyLogPath,
		Type:   typeString,
		Update: func(c *Config, v string) error { c.LogPath = v; return nil },
	},
	{
		Name:   KeyOutputPath,
		Type:   typeString,
		Update: func(c *Config, v string) error { c.OutputPath = v; return nil },
	},
	{
		Name:     KeyOutputCodec,
		Type:     "enum:" + codecutil.PCM + "," + codecutil.WAV + "," + codecutil.DCT,
		Update:   func(c *Config, v string) error { c.OutputCodec = v; return nil },
		Validate: func(c *Config) error { return validateCodec(&c.OutputCodec, c.OutputPath) },
	},
	{
		Name:   KeyQuantBits,
		Type:   typeUint,
		Update: func(c *Config, v string) (err error) {
			c.QuantBits, err = parseSetUint(KeyQuantBits, v, c)
			return err
		},
		Validate: func(c *Config) error {
			switch {
			case c.QuantBits == 0:
				c.LogInvalidField(KeyQuantBits, defaultQuantBits)
				c.QuantBits = defaultQuantBits
			case c.QuantBits < dct.MinQuantBits || c.QuantBits > dct.MaxQuantBits:
				return fmt.Errorf("%d not in [%d, %d]", c.QuantBits, dct.MinQuantBits, dct.MaxQuantBits)
			}
			return nil
		},
	},
	{
		Name:   KeyRefPath,
		Type:   typeString,
		Update: func(c *Config, v string) error { c.RefPath = v; return nil },
	},
	{
		Name:   KeySampleRate,
		Type:   typeUint,
		Update: func(c *Config, v string) (err error) {
			c.SampleRate, err = parseUint(KeySampleRate, v, c)
			return err
		},
		Validate: func(c *Config) error {
			if c.SampleRate != 0 && (c.SampleRate < dct.MinSampleRate || c.SampleRate > dct.MaxSampleRate) {
				return fmt.Errorf("%d not in [%d, %d]", c.SampleRate, dct.MinSampleRate, dct.MaxSampleRate)
			}
			return nil
		},
	},
}

// validateCodec derives an unset codec from the extension of path and checks
// that a set codec is known.
func validateCodec(codec *string, path string) error {
	if *codec == "" {
		*codec = codecutil.FromPath(path)
		return nil
	}
	if !codecutil.IsValid(*codec) {
		return fmt.Errorf("unknown codec %q", *codec)
	}
	return nil
}

func parseUint(n, v string, c *Config) (uint, error) {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
		return 0, fmt.Errorf("expected unsigned int, got %q", v)
	}
	return uint(_v), nil
}

// parseSetUint parses an unsigned int for a param where zero means unset, so
// an explicit zero is rejected.
func parseSetUint(n, v string, c *Config) (uint, error) {
	_v, err := parseUint(n, v, c)
	if err == nil && _v == 0 {
		return 0, errors.New("must be greater than zero")
	}
	return _v, err
}

func parseFloat(n, v string, c *Config) (float64, error) {
	_v, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected float for param %s", n), "value", v)
		return 0, fmt.Errorf("expected float, got %q", v)
	}
	return _v, nil
}
