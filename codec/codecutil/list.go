/*
NAME
  list.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package codecutil provides the list of audio codecs understood by the
// encoder and decoder commands.
package codecutil

import (
	"path/filepath"
	"strings"
)

// All available codecs for reference in any application.
// When adding or removing a codec from this list, the IsValid and FromPath
// functions below must be updated.
const (
	PCM  = "pcm" // Raw headerless PCM.
	WAV  = "wav"
	FLAC = "flac"
	DCT  = "dct" // Lossy DCT block stream.
)

// IsValid checks if a string is a known and valid codec in the right format.
func IsValid(s string) bool {
	switch s {
	case PCM, WAV, FLAC, DCT:
		return true
	default:
		return false
	}
}

// FromPath returns the codec implied by the extension of path, or an empty
// string if the extension is not recognised. Extensions are case insensitive.
func FromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pcm", ".raw":
		return PCM
	case ".wav", ".wave":
		return WAV
	case ".flac":
		return FLAC
	case ".dct":
		return DCT
	default:
		return ""
	}
}
