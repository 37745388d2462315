package btrfsprim

import (
	"fmt"

	"github.com/btrfscat/btrfscat/lib/btrfsio"
)

// KeySize is the on-disk size of a Key.
const KeySize = 0x11

// Key universally identifies an item within a tree. Keys order
// lexicographically by (ObjectID, ItemType, Offset) (spec.md §3).
type Key struct {
	ObjectID ObjID    // off=0x0, siz=0x8
	ItemType ItemType // off=0x8, siz=0x1
	Offset   uint64   // off=0x9, siz=0x8
}

func (k Key) String() string {
	return fmt.Sprintf("(%v %v %d)", k.ObjectID, k.ItemType, k.Offset)
}

// Compare orders two keys by (ObjectID, ItemType, Offset), returning
// a negative, zero, or positive value the way bytes.Compare does.
func (k Key) Compare(o Key) int {
	switch {
	case k.ObjectID < o.ObjectID:
		return -1
	case k.ObjectID > o.ObjectID:
		return 1
	}
	switch {
	case k.ItemType < o.ItemType:
		return -1
	case k.ItemType > o.ItemType:
		return 1
	}
	switch {
	case k.Offset < o.Offset:
		return -1
	case k.Offset > o.Offset:
		return 1
	}
	return 0
}

// DecodeKey decodes a Key at buf[off:off+0x11].
func DecodeKey(buf []byte, off int) (Key, int, error) {
	if err := btrfsio.NeedBytes(buf, off, KeySize); err != nil {
		return Key{}, 0, err
	}
	objID, _ := btrfsio.U64(buf, off+0x0)
	itemType, _ := btrfsio.U8(buf, off+0x8)
	offset, _ := btrfsio.U64(buf, off+0x9)
	return Key{
		ObjectID: ObjID(objID),
		ItemType: ItemType(itemType),
		Offset:   offset,
	}, KeySize, nil
}
