// Package cursor implements a forward-only read position over an immutable
// byte buffer.
//
// All the decoders of this module read page sections through a Cursor. The
// cursor never mutates the buffer it was given, and views returned by its
// methods alias the buffer; programs must treat them as read-only values.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a read or skip would move the cursor past
// the end of its buffer.
//
// Page lengths are sized from the page headers, so this error always
// indicates a corrupted page. Applications must use errors.Is to test for it
// since it is wrapped with the position of the failed access.
var ErrOutOfBounds = errors.New("read out of bounds")

// Cursor is a bounds-checked read offset over a byte slice.
//
// The zero value is an empty cursor.
type Cursor struct {
	data   []byte
	offset int
}

// New returns a cursor positioned at the beginning of data.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Reset repositions c at the beginning of data.
func (c *Cursor) Reset(data []byte) {
	c.data, c.offset = data, 0
}

// Len returns the number of bytes that remain to be read.
func (c *Cursor) Len() int { return len(c.data) - c.offset }

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int { return c.offset }

// ReadByte reads the next byte. The method satisfies io.ByteReader, which lets
// varint headers be decoded with binary.ReadUvarint.
func (c *Cursor) ReadByte() (byte, error) {
	if c.offset >= len(c.data) {
		return 0, c.outOfBounds(1)
	}
	b := c.data[c.offset]
	c.offset++
	return b, nil
}

// ReadFixedWidth returns a view of the next n bytes and advances past them.
func (c *Cursor) ReadFixedWidth(n int) ([]byte, error) {
	if err := c.check(n); err != nil {
		return nil, err
	}
	i := c.offset
	c.offset += n
	return c.data[i:c.offset:c.offset], nil
}

// ReadUint32 reads a 4 bytes little-endian unsigned integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.ReadFixedWidth(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadRemainingBytes returns a copy of the bytes that remain and moves the
// cursor to the end of the buffer.
func (c *Cursor) ReadRemainingBytes() []byte {
	b := append([]byte(nil), c.data[c.offset:]...)
	c.offset = len(c.data)
	return b
}

// Skip advances the cursor by n bytes without copying them.
func (c *Cursor) Skip(n int) error {
	if err := c.check(n); err != nil {
		return err
	}
	c.offset += n
	return nil
}

// Remaining returns a view of the buffer from the current offset to the end.
// The cursor position is left unchanged.
func (c *Cursor) Remaining() []byte {
	return c.data[c.offset:len(c.data):len(c.data)]
}

func (c *Cursor) check(n int) error {
	if n < 0 || n > len(c.data)-c.offset {
		return c.outOfBounds(n)
	}
	return nil
}

func (c *Cursor) outOfBounds(n int) error {
	return fmt.Errorf("%w: cannot read %d bytes at offset %d of buffer of length %d", ErrOutOfBounds, n, c.offset, len(c.data))
}
