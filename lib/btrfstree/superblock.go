// Package btrfstree implements the superblock reader and the
// recursive tree-block traversal engine (spec.md §4.3, §4.4).
package btrfstree

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/btrfscat/btrfscat/lib/btrfsio"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// SuperblockOffset is the fixed byte offset of the primary superblock
// within a BTRFS partition.
const SuperblockOffset = 0x10000

// SuperblockSize is the fixed on-disk size of a Superblock.
const SuperblockSize = 4096

var magic = [8]byte{'_', 'B', 'H', 'R', 'f', 'S', '_', 'M'}

// ErrNotBtrfs is the sole fatal error kind in the pipeline (spec.md
// §7): it means the magic bytes at superblock+0x40 did not match.
var ErrNotBtrfs = errors.New("not a btrfs volume: bad superblock magic")

// Superblock holds the fields of the BTRFS superblock that the
// cataloger needs (spec.md §3 "Superblock"). Fields not consulted by
// this read-only parser (checksum algorithm selection, backup roots,
// feature flag bits beyond what's needed to locate trees, ...) are
// omitted.
type Superblock struct {
	Magic [8]byte // off=0x40, siz=0x8

	Root      btrfsvol.LogicalAddr // off=0x50, siz=0x8
	ChunkRoot btrfsvol.LogicalAddr // off=0x58, siz=0x8

	NodeSize          uint32 // off=0x94, siz=0x4
	SysChunkArraySize uint32 // off=0xa0, siz=0x4

	RootLevel  uint8 // off=0xc6, siz=0x1
	ChunkLevel uint8 // off=0xc7, siz=0x1

	Label string // off=0x12b, siz=0x100, NUL-terminated

	SysChunkArray []byte // off=0x32b, siz up to 0x800, valid prefix is SysChunkArraySize bytes
}

// ReadSuperblock seeks to partitionOffset+0x10000, reads exactly 4096
// bytes, and decodes the fields above. It validates the magic and
// fails with ErrNotBtrfs if absent; there is no CRC verification
// (spec.md §1 Non-goals, §4.3).
func ReadSuperblock(r io.ReaderAt, partitionOffset int64) (*Superblock, error) {
	buf := make([]byte, SuperblockSize)
	if _, err := io.ReadFull(io.NewSectionReader(r, partitionOffset+SuperblockOffset, SuperblockSize), buf); err != nil {
		return nil, fmt.Errorf("reading superblock: %w", err)
	}
	return DecodeSuperblock(buf)
}

// DecodeSuperblock decodes a 4096-byte superblock buffer.
func DecodeSuperblock(buf []byte) (*Superblock, error) {
	if err := btrfsio.NeedBytes(buf, 0, SuperblockSize); err != nil {
		return nil, err
	}

	var sb Superblock
	copy(sb.Magic[:], buf[0x40:0x48])
	if sb.Magic != magic {
		return nil, ErrNotBtrfs
	}

	root, _ := btrfsio.U64(buf, 0x50)
	chunkRoot, _ := btrfsio.U64(buf, 0x58)
	sb.Root = btrfsvol.LogicalAddr(root)
	sb.ChunkRoot = btrfsvol.LogicalAddr(chunkRoot)

	sb.NodeSize, _ = btrfsio.U32(buf, 0x94)
	sb.SysChunkArraySize, _ = btrfsio.U32(buf, 0xa0)

	sb.RootLevel, _ = btrfsio.U8(buf, 0xc6)
	sb.ChunkLevel, _ = btrfsio.U8(buf, 0xc7)

	labelRaw := buf[0x12b : 0x12b+0x100]
	if i := bytes.IndexByte(labelRaw, 0); i >= 0 {
		labelRaw = labelRaw[:i]
	}
	sb.Label = string(labelRaw)

	arraySize := int(sb.SysChunkArraySize)
	if arraySize > 0x800 {
		arraySize = 0x800
	}
	sb.SysChunkArray = append([]byte(nil), buf[0x32b:0x32b+arraySize]...)

	return &sb, nil
}
