// Package btrfsextent reassembles an inode's logical byte stream from
// its (possibly compressed, possibly inline) extents (spec.md §4.8).
package btrfsextent

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/btrfscat/btrfscat/lib/btrfsitem"
)

// ErrUnsupportedCompression is returned when the compression code is
// not one of {0,1,2,3}.
var ErrUnsupportedCompression = errors.New("unsupported compression codec")

// Decompress decompresses src per codec, expecting the result to be
// expectedLen bytes. It is the single plug-point all three supported
// codecs are routed through (spec.md §9 "Decompression plug-points").
func Decompress(codec btrfsitem.CompressionType, src []byte, expectedLen int) ([]byte, error) {
	switch codec {
	case btrfsitem.COMPRESS_NONE:
		return src, nil
	case btrfsitem.COMPRESS_ZLIB:
		return decompressZlib(src, expectedLen)
	case btrfsitem.COMPRESS_LZO:
		return decompressLZO(src, expectedLen)
	case btrfsitem.COMPRESS_ZSTD:
		return decompressZstd(src, expectedLen)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, uint8(codec))
	}
}

func decompressZlib(src []byte, expectedLen int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer r.Close()
	out := make([]byte, 0, expectedLen)
	buf := bytes.NewBuffer(out)
	if _, err := io.CopyN(buf, r, int64(expectedLen)); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	return buf.Bytes(), nil
}

func decompressZstd(src []byte, expectedLen int) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(src, make([]byte, 0, expectedLen))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}

// decompressLZO decompresses the BTRFS-specific LZO framing: a 4-byte
// little-endian total decompressed length, followed by one or more
// segments each covering up to 4 KiB of decompressed output; every
// segment is a 4-byte little-endian compressed length followed by
// that many bytes of LZO1X-compressed data. No general-purpose LZO
// library exists in this module's dependency set, so the LZO1X block
// decoder itself is hand-written below.
func decompressLZO(src []byte, expectedLen int) ([]byte, error) {
	if len(src) < 4 {
		return nil, fmt.Errorf("lzo: truncated header")
	}
	totalLen := binary.LittleEndian.Uint32(src[0:4])
	src = src[4:]

	out := make([]byte, 0, expectedLen)
	for len(out) < int(totalLen) && len(src) > 0 {
		if len(src) < 4 {
			return nil, fmt.Errorf("lzo: truncated segment header")
		}
		segLen := binary.LittleEndian.Uint32(src[0:4])
		src = src[4:]
		if int(segLen) > len(src) {
			return nil, fmt.Errorf("lzo: truncated segment body")
		}
		segment := src[:segLen]
		src = src[segLen:]

		decoded, err := lzo1xDecompress(segment)
		if err != nil {
			return nil, fmt.Errorf("lzo: %w", err)
		}
		out = append(out, decoded...)
	}
	if len(out) > int(totalLen) {
		out = out[:totalLen]
	}
	return out, nil
}

// lzo1xDecompress implements the classic LZO1X byte stream format
// (the same one miniLZO's lzo1x_decompress_safe reads): a mix of
// literal runs and back-references, with the opcode's high bits
// selecting one of four instruction shapes. This is a direct
// transliteration of that well-known state machine into Go.
func lzo1xDecompress(src []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("malformed stream: %v", r)
		}
	}()

	ip := 0
	readByte := func() byte {
		b := src[ip]
		ip++
		return b
	}
	copyLiteral := func(n int) {
		out = append(out, src[ip:ip+n]...)
		ip += n
	}
	copyMatch := func(mPos, n int) {
		for k := 0; k < n; k++ {
			out = append(out, out[mPos+k])
		}
	}
	readLenExtra := func(base int) int {
		t := 0
		for src[ip] == 0 {
			t += 255
			ip++
		}
		t += base + int(readByte())
		return t
	}

	var t, mPos int
	first := src[ip] > 17
	for {
		if first {
			first = false
			t = int(readByte()) - 17
			if t < 4 {
				goto matchNext
			}
			copyLiteral(t)
			goto firstLiteralRun
		}
		t = int(readByte())
		if t >= 16 {
			goto match
		}
		if t == 0 {
			t = readLenExtra(15)
		}
		copyLiteral(t + 3)

	firstLiteralRun:
		t = int(readByte())
		if t >= 16 {
			goto match
		}
		{
			mPos := len(out) - 1 - 0x0800 - (t >> 2) - int(readByte())<<2
			copyMatch(mPos, 3)
			goto matchDone
		}

	match:
		switch {
		case t >= 64:
			mPos = len(out) - 1 - ((t >> 2) & 7) - int(readByte())<<3
			t = (t >> 5) - 1
		case t >= 32:
			t &= 31
			if t == 0 {
				t = readLenExtra(31)
			}
			lo := int(readByte())
			hi := int(readByte())
			mPos = len(out) - 1 - (lo>>2 + hi<<6)
		case t >= 16:
			mPos = len(out) - ((t & 8) << 11)
			t &= 7
			if t == 0 {
				t = readLenExtra(7)
			}
			lo := int(readByte())
			hi := int(readByte())
			mPos -= lo>>2 + hi<<6
			if mPos == len(out) {
				return out, nil // end marker
			}
			mPos -= 0x4000
		default: // t < 16 read right after a match's trailing literals: a 2-byte match
			mPos = len(out) - 1 - (t >> 2) - int(readByte())<<2
			copyMatch(mPos, 2)
			goto matchDone
		}
		if mPos < 0 || mPos >= len(out) {
			return nil, fmt.Errorf("match distance out of range")
		}
		copyMatch(mPos, t+2)

	matchDone:
		// The trailing literal count is the low 2 bits of the
		// second-to-last byte the instruction consumed (the reference
		// decoder's ip[-2] & 3); fall through to matchNext to copy them.
		t = int(src[ip-2]) & 3
	matchNext:
		if t == 0 {
			if ip >= len(src) {
				return out, nil
			}
			continue
		}
		copyLiteral(t)
		t = int(readByte())
		goto match
	}
}
