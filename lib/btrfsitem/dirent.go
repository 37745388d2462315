package btrfsitem

import (
	"fmt"

	"github.com/btrfscat/btrfscat/lib/btrfsio"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
)

// DirEntry is the decoded payload shared by DIR_ITEM (84), DIR_INDEX
// (96) and XATTR_ITEM (24). key.ObjectID is the inode of the
// directory containing the entry; key.Offset is a name hash for
// DIR_ITEM/XATTR_ITEM or an index number (starting at 2) for
// DIR_INDEX.
type DirEntry struct {
	Location btrfsprim.Key // off=0x0, siz=0x11
	TransID  uint64        // off=0x11, siz=0x8
	Type     FileType      // off=0x1d, siz=0x1
	Data     []byte        // xattr value; only for XATTR_ITEM
	Name     []byte
}

const dirEntryHeaderSize = 0x1e

// DecodeDirEntry decodes a single DIR_ITEM/DIR_INDEX/XATTR_ITEM
// payload. A DIR_ITEM payload may actually hold more than one
// DirEntry back to back when several entries hash-collide; callers
// that need that should use DecodeDirEntries instead.
func DecodeDirEntry(buf []byte, off int) (DirEntry, int, error) {
	if err := btrfsio.NeedBytes(buf, off, dirEntryHeaderSize); err != nil {
		return DirEntry{}, 0, err
	}
	loc, _, err := btrfsprim.DecodeKey(buf, off)
	if err != nil {
		return DirEntry{}, 0, err
	}
	transID, _ := btrfsio.U64(buf, off+0x11)
	dataLen, _ := btrfsio.U16(buf, off+0x19)
	nameLen, _ := btrfsio.U16(buf, off+0x1b)
	typ, _ := btrfsio.U8(buf, off+0x1d)

	if nameLen > MaxNameLen {
		return DirEntry{}, 0, fmt.Errorf("%w: dir entry name length %d exceeds maximum %d", btrfsio.ErrTruncatedRecord, nameLen, MaxNameLen)
	}

	n := dirEntryHeaderSize
	name, err := btrfsio.Bytes(buf, off+n, int(nameLen))
	if err != nil {
		return DirEntry{}, 0, err
	}
	n += int(nameLen)
	data, err := btrfsio.Bytes(buf, off+n, int(dataLen))
	if err != nil {
		return DirEntry{}, 0, err
	}
	n += int(dataLen)

	return DirEntry{
		Location: loc,
		TransID:  transID,
		Type:     FileType(typ),
		Data:     append([]byte(nil), data...),
		Name:     append([]byte(nil), name...),
	}, n, nil
}

// DecodeDirEntries decodes every DirEntry packed back to back in buf,
// stopping (and logging, at the caller) at the first entry that fails
// to decode.
func DecodeDirEntries(buf []byte) ([]DirEntry, error) {
	var out []DirEntry
	off := 0
	for off < len(buf) {
		e, n, err := DecodeDirEntry(buf, off)
		if err != nil {
			return out, err
		}
		out = append(out, e)
		off += n
	}
	return out, nil
}

// FileType is the DirEntry.Type field, mirroring the Linux d_type
// values used by BTRFS directory items.
type FileType uint8

const (
	FT_UNKNOWN  = FileType(0)
	FT_REG_FILE = FileType(1)
	FT_DIR      = FileType(2)
	FT_CHRDEV   = FileType(3)
	FT_BLKDEV   = FileType(4)
	FT_FIFO     = FileType(5)
	FT_SOCK     = FileType(6)
	FT_SYMLINK  = FileType(7)
	FT_XATTR    = FileType(8)
)

var fileTypeNames = map[FileType]string{
	FT_UNKNOWN:  "UNKNOWN",
	FT_REG_FILE: "FILE",
	FT_DIR:      "DIR",
	FT_CHRDEV:   "CHRDEV",
	FT_BLKDEV:   "BLKDEV",
	FT_FIFO:     "FIFO",
	FT_SOCK:     "SOCK",
	FT_SYMLINK:  "SYMLINK",
	FT_XATTR:    "XATTR",
}

func (ft FileType) String() string {
	if name, ok := fileTypeNames[ft]; ok {
		return name
	}
	return fmt.Sprintf("FILE_TYPE.%d", uint8(ft))
}
