package btrfsextent

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/datawire/dlib/dlog"

	"github.com/btrfscat/btrfscat/lib/btrfsfs"
	"github.com/btrfscat/btrfscat/lib/btrfsitem"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// ErrShortRead is returned (wrapped) when an extent's backing bytes
// cannot be fully read from the image.
var ErrShortRead = errors.New("short read")

// Reassemble concatenates an inode's extents, in file-offset order,
// into its logical byte stream, truncated or zero-padded to
// declaredSize. A failure reading or decompressing any one extent is
// localized: Reassemble returns the bytes successfully gathered so
// far (likewise truncated or zero-padded to declaredSize) along with
// the error, and the caller (the record emitter) treats a non-nil error
// as "omit content hashes for this file" rather than aborting
// (spec.md §4.8, §7).
func Reassemble(ctx context.Context, img *btrfsvol.Image, extents []btrfsfs.Extent, declaredSize int64) ([]byte, error) {
	sorted := append([]btrfsfs.Extent(nil), extents...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FileOffset < sorted[j].FileOffset })

	var out []byte
	for _, e := range sorted {
		chunk, err := reassembleOne(ctx, img, e)
		if err != nil {
			return truncate(out, declaredSize), fmt.Errorf("extent at file offset %#x: %w", e.FileOffset, err)
		}
		if gap := e.FileOffset - int64(len(out)); gap > 0 {
			out = append(out, make([]byte, gap)...)
		}
		out = append(out, chunk...)
	}
	return truncate(out, declaredSize), nil
}

func truncate(buf []byte, size int64) []byte {
	if size < 0 {
		return buf
	}
	if int64(len(buf)) > size {
		return buf[:size]
	}
	if int64(len(buf)) < size {
		buf = append(buf, make([]byte, size-int64(len(buf)))...)
	}
	return buf
}

func reassembleOne(ctx context.Context, img *btrfsvol.Image, e btrfsfs.Extent) ([]byte, error) {
	switch e.Type {
	case btrfsitem.FILE_EXTENT_INLINE:
		if e.Compression == btrfsitem.COMPRESS_NONE {
			return e.InlineData, nil
		}
		data, err := Decompress(e.Compression, e.InlineData, int(e.RAMBytes))
		if err != nil {
			dlog.Warnf(ctx, "inline extent: %v", err)
			return nil, err
		}
		return data, nil

	case btrfsitem.FILE_EXTENT_REG, btrfsitem.FILE_EXTENT_PREALLOC:
		if e.DiskByteNr == 0 {
			return make([]byte, e.NumBytes), nil
		}

		if e.Compression == btrfsitem.COMPRESS_NONE {
			buf := make([]byte, e.NumBytes)
			if err := img.ReadLogical(e.DiskByteNr.Add(e.ExtentOffset), buf); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrShortRead, err)
			}
			return buf, nil
		}

		raw := make([]byte, e.DiskNumBytes)
		if err := img.ReadLogical(e.DiskByteNr, raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShortRead, err)
		}
		decoded, err := Decompress(e.Compression, raw, int(e.RAMBytes))
		if err != nil {
			return nil, err
		}
		start := e.ExtentOffset
		end := start + btrfsvol.AddrDelta(e.NumBytes)
		if int64(end) > int64(len(decoded)) {
			return nil, fmt.Errorf("%w: decompressed extent shorter than window", ErrShortRead)
		}
		return decoded[start:end], nil

	default:
		return nil, fmt.Errorf("unknown file extent type %v", e.Type)
	}
}
