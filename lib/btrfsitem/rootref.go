package btrfsitem

import (
	"fmt"

	"github.com/btrfscat/btrfscat/lib/btrfsio"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
)

// RootRef is the decoded payload of a ROOT_REF item (item type 156,
// or ROOT_BACKREF 144). It names a subvolume: key.ObjectID is the
// parent tree's object id, key.Offset is the child subvolume's object
// id, and DirID/Name locate the entry within the parent's directory.
type RootRef struct {
	DirID    btrfsprim.ObjID // off=0x00, siz=0x8
	Sequence uint64          // off=0x08, siz=0x8
	Name     []byte
}

const rootRefHeaderSize = 0x12

// DecodeRootRef decodes a ROOT_REF/ROOT_BACKREF payload.
func DecodeRootRef(buf []byte) (RootRef, error) {
	if err := btrfsio.NeedBytes(buf, 0, rootRefHeaderSize); err != nil {
		return RootRef{}, err
	}
	dirID, _ := btrfsio.U64(buf, 0x00)
	seq, _ := btrfsio.U64(buf, 0x08)
	nameLen, _ := btrfsio.U16(buf, 0x10)
	if nameLen > MaxNameLen {
		return RootRef{}, fmt.Errorf("%w: root ref name length %d exceeds maximum %d", btrfsio.ErrTruncatedRecord, nameLen, MaxNameLen)
	}
	name, err := btrfsio.Bytes(buf, rootRefHeaderSize, int(nameLen))
	if err != nil {
		return RootRef{}, err
	}
	return RootRef{
		DirID:    btrfsprim.ObjID(dirID),
		Sequence: seq,
		Name:     append([]byte(nil), name...),
	}, nil
}
