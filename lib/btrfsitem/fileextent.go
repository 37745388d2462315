package btrfsitem

import (
	"fmt"

	"github.com/btrfscat/btrfscat/lib/btrfsio"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// FileExtentType distinguishes inline file data from a pointer to a
// real extent.
type FileExtentType uint8

const (
	FILE_EXTENT_INLINE FileExtentType = iota
	FILE_EXTENT_REG
	FILE_EXTENT_PREALLOC
)

var fileExtentTypeNames = []string{"inline", "regular", "prealloc"}

func (t FileExtentType) String() string {
	name := "unknown"
	if int(t) < len(fileExtentTypeNames) {
		name = fileExtentTypeNames[t]
	}
	return fmt.Sprintf("%d (%s)", uint8(t), name)
}

// CompressionType is the codec used to compress a regular extent's
// on-disk bytes, or an inline extent's body.
type CompressionType uint8

const (
	COMPRESS_NONE CompressionType = iota
	COMPRESS_ZLIB
	COMPRESS_LZO
	COMPRESS_ZSTD
)

var compressionTypeNames = []string{"none", "zlib", "lzo", "zstd"}

func (c CompressionType) String() string {
	name := "unknown"
	if int(c) < len(compressionTypeNames) {
		name = compressionTypeNames[c]
	}
	return fmt.Sprintf("%d (%s)", uint8(c), name)
}

// FileExtentExtent is the body of a non-inline FileExtent: the
// location and size of the extent on disk, and the window of it used
// by this file.
type FileExtentExtent struct {
	DiskByteNr   btrfsvol.LogicalAddr // off=0x0, siz=0x8; 0 means a hole
	DiskNumBytes btrfsvol.AddrDelta   // off=0x8, siz=0x8
	Offset       btrfsvol.AddrDelta   // off=0x10, siz=0x8
	NumBytes     int64                // off=0x18, siz=0x8
}

// FileExtent is the decoded payload of an EXTENT_DATA item (item type
// 108). key.ObjectID is the inode; key.Offset is the byte offset
// within the file where this extent's data begins.
type FileExtent struct {
	Generation    btrfsprim.Generation // off=0x0, siz=0x8
	RAMBytes      int64                // off=0x8, siz=0x8
	Compression   CompressionType      // off=0x10, siz=0x1
	Encryption    uint8                // off=0x11, siz=0x1
	Type          FileExtentType       // off=0x14, siz=0x1
	BodyInline    []byte               // valid iff Type == FILE_EXTENT_INLINE
	BodyExtent    FileExtentExtent     // valid iff Type == FILE_EXTENT_REG or FILE_EXTENT_PREALLOC
}

const fileExtentHeaderSize = 0x15

// DecodeFileExtent decodes an EXTENT_DATA payload.
func DecodeFileExtent(buf []byte) (FileExtent, error) {
	if err := btrfsio.NeedBytes(buf, 0, fileExtentHeaderSize); err != nil {
		return FileExtent{}, err
	}
	var v FileExtent
	gen, _ := btrfsio.U64(buf, 0x0)
	v.Generation = btrfsprim.Generation(gen)
	v.RAMBytes, _ = btrfsio.I64(buf, 0x8)
	compression, _ := btrfsio.U8(buf, 0x10)
	v.Compression = CompressionType(compression)
	v.Encryption, _ = btrfsio.U8(buf, 0x11)
	typ, _ := btrfsio.U8(buf, 0x14)
	v.Type = FileExtentType(typ)

	switch v.Type {
	case FILE_EXTENT_INLINE:
		body, err := btrfsio.Bytes(buf, fileExtentHeaderSize, len(buf)-fileExtentHeaderSize)
		if err != nil {
			return FileExtent{}, err
		}
		v.BodyInline = append([]byte(nil), body...)
	case FILE_EXTENT_REG, FILE_EXTENT_PREALLOC:
		if err := btrfsio.NeedBytes(buf, fileExtentHeaderSize, 0x20); err != nil {
			return FileExtent{}, err
		}
		diskByteNr, _ := btrfsio.U64(buf, fileExtentHeaderSize+0x0)
		diskNumBytes, _ := btrfsio.U64(buf, fileExtentHeaderSize+0x8)
		extOffset, _ := btrfsio.U64(buf, fileExtentHeaderSize+0x10)
		numBytes, _ := btrfsio.I64(buf, fileExtentHeaderSize+0x18)
		v.BodyExtent = FileExtentExtent{
			DiskByteNr:   btrfsvol.LogicalAddr(diskByteNr),
			DiskNumBytes: btrfsvol.AddrDelta(diskNumBytes),
			Offset:       btrfsvol.AddrDelta(extOffset),
			NumBytes:     numBytes,
		}
	default:
		return FileExtent{}, fmt.Errorf("unknown file extent type %v", v.Type)
	}
	return v, nil
}

// Size returns the number of file bytes the extent supplies once
// decompressed: RAMBytes for a compressed inline body, the body length
// for an uncompressed one, and NumBytes for regular/prealloc extents.
func (v FileExtent) Size() (int64, error) {
	switch v.Type {
	case FILE_EXTENT_INLINE:
		if v.Compression != COMPRESS_NONE {
			return v.RAMBytes, nil
		}
		return int64(len(v.BodyInline)), nil
	case FILE_EXTENT_REG, FILE_EXTENT_PREALLOC:
		return v.BodyExtent.NumBytes, nil
	default:
		return 0, fmt.Errorf("unknown file extent type %v", v.Type)
	}
}
