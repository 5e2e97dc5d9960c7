/*
DESCRIPTION
  bitwriter.go provides a bit writer implementation that packs unsigned
  integers of 1 to 64 bits, MSB-first, into an io.Writer destination.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bits

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

type byteWriter interface {
	io.ByteWriter
	Flush() error
}

// BitWriter is a bit writer that provides methods for writing bits to an
// io.Writer destination. Bits are accumulated until a full byte is available
// and then written. Close must be called to emit a final partial byte.
type BitWriter struct {
	w      byteWriter
	acc    byte // Pending bits, held from the most-significant end.
	bits   int  // Number of pending bits in acc, always < 8.
	nBits  int64
	nBytes int64
	closed bool
}

// NewBitWriter returns a new BitWriter. Writes to w are buffered; they are
// flushed by Close.
func NewBitWriter(w io.Writer) *BitWriter {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &BitWriter{w: bw}
}

// WriteBits writes the n least-significant bits of v, most-significant first.
// n must be in [1, 64]. Bits of v above the n least-significant are silently
// discarded, i.e. v is masked to n bits.
// For example, the following consecutive writes (n, v):
// (4, 0x8), (2, 0x3), (4, 0xf), (6, 0x23)
// produce the bytes 0x8f, 0xe3 (1000 1111, 1110 0011).
func (bw *BitWriter) WriteBits(v uint64, n int) error {
	if bw.closed {
		return ErrStreamClosed
	}
	if n < MinWidth || n > MaxWidth {
		return errors.Wrapf(ErrInvalidWidth, "cannot write %d bits", n)
	}
	bw.nBits += int64(n)

	for n > 0 {
		free := 8 - bw.bits
		take := min(n, free)

		// Select the next take bits below the top of the remaining n bits. The
		// mask also drops anything of v above bit n.
		chunk := byte(v>>uint(n-take)) & (1<<uint(take) - 1)
		bw.acc |= chunk << uint(free-take)
		bw.bits += take
		n -= take

		if bw.bits == 8 {
			err := bw.w.WriteByte(bw.acc)
			if err != nil {
				return errors.Wrap(err, "could not write byte")
			}
			bw.nBytes++
			bw.acc, bw.bits = 0, 0
		}
	}
	return nil
}

// ByteAligned returns true if there are no pending bits, and false otherwise.
func (bw *BitWriter) ByteAligned() bool {
	return bw.bits == 0
}

// BitsWritten returns the number of bits passed to WriteBits, excluding any
// padding added by Close.
func (bw *BitWriter) BitsWritten() int64 {
	return bw.nBits
}

// BytesWritten returns the number of whole bytes emitted so far, including
// the padded final byte once Close has been called.
func (bw *BitWriter) BytesWritten() int64 {
	return bw.nBytes
}

// Close pads any pending bits with zeros to a full byte, writes it and flushes
// the destination. Close may be called more than once; only the first call
// has an effect. The destination itself is not closed.
func (bw *BitWriter) Close() error {
	if bw.closed {
		return nil
	}
	bw.closed = true

	if bw.bits != 0 {
		err := bw.w.WriteByte(bw.acc)
		if err != nil {
			return errors.Wrap(err, "could not write padded byte")
		}
		bw.nBytes++
		bw.acc, bw.bits = 0, 0
	}

	err := bw.w.Flush()
	if err != nil {
		return errors.Wrap(err, "could not flush bit writer")
	}
	return nil
}
