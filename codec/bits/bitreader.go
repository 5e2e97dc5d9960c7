/*
DESCRIPTION
  bitreader.go provides a bit reader implementation that reads MSB-first
  packed unsigned integers of 1 to 64 bits from an io.Reader data source.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides a bit reader and bit writer for streams of unsigned
// integers of arbitrary width packed contiguously, most-significant bit first,
// with no padding except at the end of the stream.
package bits

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Widths accepted by ReadBits and WriteBits.
const (
	MinWidth = 1
	MaxWidth = 64
)

var (
	ErrUnexpectedEndOfStream = errors.New("unexpected end of bit stream")
	ErrStreamClosed          = errors.New("bit stream closed")
	ErrInvalidWidth          = errors.New("invalid bit width")
)

// BitReader is a bit reader that provides methods for reading bits from an
// io.Reader source.
type BitReader struct {
	r      io.ByteReader
	cur    byte // Byte currently being consumed.
	bits   int  // Number of unread bits remaining in cur.
	nRead  int
	closed bool
}

// NewBitReader returns a new BitReader.
func NewBitReader(r io.Reader) *BitReader {
	byter, ok := r.(io.ByteReader)
	if !ok {
		byter = bufio.NewReader(r)
	}
	return &BitReader{r: byter}
}

// ReadBits reads n bits from the source and returns them in the least-significant
// part of a uint64. n must be in [1, 64].
// For example, with a source as []byte{0x8f,0xe3} (1000 1111, 1110 0011), we
// would get the following results for consequtive reads with n values:
// n = 4, res = 0x8 (1000)
// n = 2, res = 0x3 (0011)
// n = 4, res = 0xf (1111)
// n = 6, res = 0x23 (0010 0011)
// If the source is exhausted before n bits are available, ErrUnexpectedEndOfStream
// is returned.
func (br *BitReader) ReadBits(n int) (uint64, error) {
	if br.closed {
		return 0, ErrStreamClosed
	}
	if n < MinWidth || n > MaxWidth {
		return 0, errors.Wrapf(ErrInvalidWidth, "cannot read %d bits", n)
	}

	var res uint64
	for n > 0 {
		if br.bits == 0 {
			b, err := br.r.ReadByte()
			if err == io.EOF {
				return 0, ErrUnexpectedEndOfStream
			}
			if err != nil {
				return 0, errors.Wrap(err, "could not read byte")
			}
			br.nRead++
			br.cur = b
			br.bits = 8
		}

		// br.cur looks like this (assuming that br.bits = 5 and take = 3):
		//
		//         (3 bits, taken this iteration)
		//          |-|
		//          V V
		//      01101101
		//         ^   ^
		//         |---|
		//        br.bits (num unread bits)
		//
		// The taken bits are right shifted into the least-significant places,
		// masked, and appended below the bits already collected.
		take := min(n, br.bits)
		chunk := uint64(br.cur>>uint(br.bits-take)) & (1<<uint(take) - 1)
		res = res<<uint(take) | chunk
		br.bits -= take
		n -= take
	}
	return res, nil
}

// ByteAligned returns true if the reader position is at the start of a byte,
// and false otherwise.
func (br *BitReader) ByteAligned() bool {
	return br.bits == 0
}

// Off returns the current offset from the starting bit of the current byte.
func (br *BitReader) Off() int {
	return (8 - br.bits) % 8
}

// BytesRead returns the number of bytes that have been read by the BitReader.
func (br *BitReader) BytesRead() int {
	return br.nRead
}

// Close releases the reader. The underlying source is owned by the caller and
// is not closed. Subsequent reads return ErrStreamClosed.
func (br *BitReader) Close() error {
	br.closed = true
	return nil
}
