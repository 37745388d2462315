package btrfsitem

import (
	"github.com/btrfscat/btrfscat/lib/btrfsio"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
	"github.com/btrfscat/btrfscat/lib/fmtutil"
)

// Root is the decoded payload of a ROOT_ITEM (item type 132): one
// per subvolume (and a handful of internal trees), giving the
// logical address of that tree's root block.
type Root struct {
	Inode     Inode                // off=0x000, siz=0xa0
	ByteNr    btrfsvol.LogicalAddr // off=0x0b0, siz=0x8
	Refs      int32                // off=0x0d8, siz=0x4
	UUID      btrfsprim.UUID       // off=0x0f7, siz=0x10
	Flags     RootFlags            // off=0x0d0, siz=0x8
}

const rootItemSize = 0x1b7

// DecodeRoot decodes a ROOT_ITEM payload.
func DecodeRoot(buf []byte) (Root, error) {
	if err := btrfsio.NeedBytes(buf, 0, rootItemSize); err != nil {
		return Root{}, err
	}
	inode, err := DecodeInode(buf[:InodeSize])
	if err != nil {
		return Root{}, err
	}
	var v Root
	v.Inode = inode
	byteNr, _ := btrfsio.U64(buf, 0x0b0)
	v.ByteNr = btrfsvol.LogicalAddr(byteNr)
	flags, _ := btrfsio.U64(buf, 0x0d0)
	v.Flags = RootFlags(flags)
	refs, _ := btrfsio.U32(buf, 0x0d8)
	v.Refs = int32(refs)
	uuid, _, err := btrfsprim.DecodeUUID(buf, 0x0f7)
	if err != nil {
		return Root{}, err
	}
	v.UUID = uuid
	return v, nil
}

// RootFlags are the ROOT_ITEM flag bits.
type RootFlags uint64

const (
	ROOT_SUBVOL_RDONLY = RootFlags(1 << iota)
)

var rootFlagNames = []string{"SUBVOL_RDONLY"}

func (f RootFlags) Has(req RootFlags) bool { return f&req == req }
func (f RootFlags) String() string {
	return fmtutil.BitfieldString(f, rootFlagNames, fmtutil.HexLower)
}
