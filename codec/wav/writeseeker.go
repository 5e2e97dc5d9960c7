/*
NAME
  writeseeker.go

DESCRIPTION
  writeseeker.go provides a memory based io.WriteSeeker, allowing WAV files to
  be built where the destination cannot seek.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package wav

import (
	"errors"
	"io"
)

// WriteSeeker implements a memory based io.WriteSeeker.
type WriteSeeker struct {
	buf []byte
	pos int
}

// Bytes returns the bytes contained in the WriteSeeker's buffer.
func (ws *WriteSeeker) Bytes() []byte {
	return ws.buf
}

// Write writes p at the current offset, growing the buffer as needed. Any gap
// left by seeking past the end is zero filled. Write never returns an error.
func (ws *WriteSeeker) Write(p []byte) (int, error) {
	end := ws.pos + len(p)
	if end > len(ws.buf) {
		ws.buf = append(ws.buf, make([]byte, end-len(ws.buf))...)
	}
	copy(ws.buf[ws.pos:end], p)
	ws.pos = end
	return len(p), nil
}

// Reset empties the buffer and returns the offset to the start.
func (ws *WriteSeeker) Reset() {
	ws.buf = ws.buf[:0]
	ws.pos = 0
}

// Seek sets the offset for the next Write to offset, interpreted according
// to whence: SeekStart means relative to the start of the buffer, SeekCurrent means
// relative to the current offset, and SeekEnd means relative to the end. Seek returns
// the new offset relative to the start of the buffer and an error, if any.
func (ws *WriteSeeker) Seek(offset int64, whence int) (int64, error) {
	newPos, offs := 0, int(offset)
	switch whence {
	case io.SeekStart:
		newPos = offs
	case io.SeekCurrent:
		newPos = ws.pos + offs
	case io.SeekEnd:
		newPos = len(ws.buf) + offs
	default:
		return 0, errors.New("invalid whence")
	}
	if newPos < 0 {
		return 0, errors.New("negative result pos")
	}
	ws.pos = newPos
	return int64(newPos), nil
}
