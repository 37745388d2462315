package btrfsitem

import (
	"github.com/btrfscat/btrfscat/lib/btrfsio"
)

// MaxNameLen is the longest name BTRFS permits in a single directory
// or reference entry.
const MaxNameLen = 255

// InodeRef is the decoded payload of an INODE_REF item (item type 12).
// The item's key.ObjectID is the inode number of the file; key.Offset
// is the inode number of the parent directory.
type InodeRef struct {
	Index uint64 // off=0x0, siz=0x8
	Name  []byte
}

// DecodeInodeRef decodes an INODE_REF payload.
func DecodeInodeRef(buf []byte) (InodeRef, error) {
	if err := btrfsio.NeedBytes(buf, 0, 0xa); err != nil {
		return InodeRef{}, err
	}
	index, _ := btrfsio.U64(buf, 0x0)
	nameLen, _ := btrfsio.U16(buf, 0x8)
	name, err := btrfsio.Bytes(buf, 0xa, int(nameLen))
	if err != nil {
		return InodeRef{}, err
	}
	return InodeRef{
		Index: index,
		Name:  append([]byte(nil), name...),
	}, nil
}

// InodeExtref is the decoded payload of an INODE_EXTREF item (item
// type 13), used when a hardlinked file's parent directory's inode
// number does not fit in the key's 64-bit offset alone.
type InodeExtref struct {
	ParentObjID uint64 // off=0x0, siz=0x8
	Index       uint64 // off=0x8, siz=0x8
	Name        []byte
}

// DecodeInodeExtref decodes an INODE_EXTREF payload.
func DecodeInodeExtref(buf []byte) (InodeExtref, error) {
	if err := btrfsio.NeedBytes(buf, 0, 0x12); err != nil {
		return InodeExtref{}, err
	}
	parent, _ := btrfsio.U64(buf, 0x0)
	index, _ := btrfsio.U64(buf, 0x8)
	nameLen, _ := btrfsio.U16(buf, 0x10)
	name, err := btrfsio.Bytes(buf, 0x12, int(nameLen))
	if err != nil {
		return InodeExtref{}, err
	}
	return InodeExtref{
		ParentObjID: parent,
		Index:       index,
		Name:        append([]byte(nil), name...),
	}, nil
}
