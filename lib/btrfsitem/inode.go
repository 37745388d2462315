// Package btrfsitem decodes the payload bytes of leaf items according
// to their key's item type (spec.md §4.5 "Item decoding").
package btrfsitem

import (
	"github.com/btrfscat/btrfscat/lib/btrfsio"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
	"github.com/btrfscat/btrfscat/lib/fmtutil"
	"github.com/btrfscat/btrfscat/lib/linux"
)

// InodeSize is the fixed size of an INODE_ITEM payload.
const InodeSize = 0xa0

// Inode is the decoded payload of an INODE_ITEM (item type 1).
type Inode struct {
	Generation btrfsprim.Generation // off=0x00, siz=0x08
	TransID    int64                // off=0x08, siz=0x08
	Size       int64                // off=0x10, siz=0x08
	NumBytes   int64                // off=0x18, siz=0x08
	BlockGroup int64                // off=0x20, siz=0x08
	NLink      uint32               // off=0x28, siz=0x04
	UID        uint32               // off=0x2c, siz=0x04
	GID        uint32               // off=0x30, siz=0x04
	Mode       linux.StatMode       // off=0x34, siz=0x04
	RDev       uint64               // off=0x38, siz=0x08
	Flags      InodeFlags           // off=0x40, siz=0x08
	Sequence   int64                // off=0x48, siz=0x08
	ATime      btrfsprim.Time       // off=0x70, siz=0x0c
	CTime      btrfsprim.Time       // off=0x7c, siz=0x0c
	MTime      btrfsprim.Time       // off=0x88, siz=0x0c
	OTime      btrfsprim.Time       // off=0x94, siz=0x0c
}

// DecodeInode decodes an INODE_ITEM payload.
func DecodeInode(buf []byte) (Inode, error) {
	if err := btrfsio.NeedBytes(buf, 0, InodeSize); err != nil {
		return Inode{}, err
	}
	var v Inode
	gen, _ := btrfsio.U64(buf, 0x00)
	v.Generation = btrfsprim.Generation(gen)
	v.TransID, _ = btrfsio.I64(buf, 0x08)
	v.Size, _ = btrfsio.I64(buf, 0x10)
	v.NumBytes, _ = btrfsio.I64(buf, 0x18)
	v.BlockGroup, _ = btrfsio.I64(buf, 0x20)
	v.NLink, _ = btrfsio.U32(buf, 0x28)
	v.UID, _ = btrfsio.U32(buf, 0x2c)
	v.GID, _ = btrfsio.U32(buf, 0x30)
	mode, _ := btrfsio.U32(buf, 0x34)
	v.Mode = linux.StatMode(mode)
	v.RDev, _ = btrfsio.U64(buf, 0x38)
	flags, _ := btrfsio.U64(buf, 0x40)
	v.Flags = InodeFlags(flags)
	v.Sequence, _ = btrfsio.I64(buf, 0x48)
	v.ATime, _, _ = btrfsprim.DecodeTime(buf, 0x70)
	v.CTime, _, _ = btrfsprim.DecodeTime(buf, 0x7c)
	v.MTime, _, _ = btrfsprim.DecodeTime(buf, 0x88)
	v.OTime, _, _ = btrfsprim.DecodeTime(buf, 0x94)
	return v, nil
}

// InodeFlags are the INODE_ITEM flag bits (spec.md §6).
type InodeFlags uint64

const (
	INODE_NODATASUM = InodeFlags(1 << iota)
	INODE_NODATACOW
	INODE_READONLY
	INODE_NOCOMPRESS
	INODE_PREALLOC
	INODE_SYNC
	INODE_IMMUTABLE
	INODE_APPEND
	INODE_NODUMP
	INODE_NOATIME
	INODE_DIRSYNC
	INODE_COMPRESS
)

var inodeFlagNames = []string{
	"NODATASUM",
	"NODATACOW",
	"READONLY",
	"NOCOMPRESS",
	"PREALLOC",
	"SYNC",
	"IMMUTABLE",
	"APPEND",
	"NODUMP",
	"NOATIME",
	"DIRSYNC",
	"COMPRESS",
}

func (f InodeFlags) Has(req InodeFlags) bool { return f&req == req }
func (f InodeFlags) String() string {
	return fmtutil.BitfieldString(f, inodeFlagNames, fmtutil.HexLower)
}
