// Package btrfsio provides the low-level, bounds-checked little-endian
// decoders that every on-disk BTRFS record is built from.
//
// Every decoder follows the same shape: it takes a buffer and a byte
// offset, and returns the decoded value plus the number of bytes
// consumed starting at that offset. A decode whose required span runs
// past the end of buf fails with ErrTruncatedRecord instead of
// panicking, so that a single corrupt item can be skipped by its
// caller rather than aborting the whole traversal.
package btrfsio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncatedRecord is returned (wrapped with context) when a decode
// would read past the end of the supplied buffer.
var ErrTruncatedRecord = errors.New("truncated record")

// NeedBytes returns a wrapped ErrTruncatedRecord if buf does not have
// at least n bytes available starting at off.
func NeedBytes(buf []byte, off, n int) error {
	if off < 0 || n < 0 || off+n > len(buf) {
		return fmt.Errorf("%w: need %d bytes at offset %#x, buffer is %d bytes",
			ErrTruncatedRecord, n, off, len(buf))
	}
	return nil
}

func U8(buf []byte, off int) (uint8, error) {
	if err := NeedBytes(buf, off, 1); err != nil {
		return 0, err
	}
	return buf[off], nil
}

func U16(buf []byte, off int) (uint16, error) {
	if err := NeedBytes(buf, off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[off:]), nil
}

func U32(buf []byte, off int) (uint32, error) {
	if err := NeedBytes(buf, off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[off:]), nil
}

func U64(buf []byte, off int) (uint64, error) {
	if err := NeedBytes(buf, off, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[off:]), nil
}

func I64(buf []byte, off int) (int64, error) {
	v, err := U64(buf, off)
	return int64(v), err
}

// Bytes returns a sub-slice of buf, bounds-checked. The slice aliases
// buf; callers that retain it past the lifetime of the underlying
// node buffer must copy it first.
func Bytes(buf []byte, off, n int) ([]byte, error) {
	if err := NeedBytes(buf, off, n); err != nil {
		return nil, err
	}
	return buf[off : off+n], nil
}
