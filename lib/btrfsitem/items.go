package btrfsitem

import (
	"fmt"

	"github.com/btrfscat/btrfscat/lib/btrfsprim"
)

// Item is the decoded payload of a leaf item, tagged by the item
// type of the key that owns it. When decoding succeeds, exactly one of
// the typed fields below is set, selected by Key.ItemType; DirEntries
// serves DIR_ITEM, DIR_INDEX and XATTR_ITEM alike, and ROOT_BACKREF
// shares RootRef with ROOT_REF.
type Item struct {
	Key btrfsprim.Key

	Inode       *Inode
	InodeRef    *InodeRef
	InodeExtref *InodeExtref
	DirEntries  []DirEntry // DIR_ITEM, DIR_INDEX, XATTR_ITEM
	FileExtent  *FileExtent
	Chunk       *Chunk
	Root        *Root
	RootRef     *RootRef
	ExtentCSum  *ExtentCSum

	// Err is set, and every typed field left nil, when decoding
	// failed or the item type is not one the cataloger interprets.
	// A value here is never fatal to the traversal (spec.md §7).
	Err error
}

// DecodeItem dispatches on key.ItemType and decodes data into the
// matching typed field of Item. checksumSize is only consulted for
// EXTENT_CSUM items. Unknown item types (BLOCK_GROUP_ITEM,
// DEV_EXTENT, free-space items, qgroup items, ...) are not an error;
// they decode to a zero Item with Err set to ErrUnhandledItemType so
// callers can distinguish "not interesting" from "corrupt".
func DecodeItem(key btrfsprim.Key, checksumSize int, data []byte) Item {
	item := Item{Key: key}
	var err error
	switch key.ItemType {
	case btrfsprim.INODE_ITEM:
		var v Inode
		v, err = DecodeInode(data)
		if err == nil {
			item.Inode = &v
		}
	case btrfsprim.INODE_REF:
		var v InodeRef
		v, err = DecodeInodeRef(data)
		if err == nil {
			item.InodeRef = &v
		}
	case btrfsprim.INODE_EXTREF:
		var v InodeExtref
		v, err = DecodeInodeExtref(data)
		if err == nil {
			item.InodeExtref = &v
		}
	case btrfsprim.XATTR_ITEM, btrfsprim.DIR_ITEM, btrfsprim.DIR_INDEX:
		var v []DirEntry
		v, err = DecodeDirEntries(data)
		if err == nil {
			item.DirEntries = v
		}
	case btrfsprim.EXTENT_DATA:
		var v FileExtent
		v, err = DecodeFileExtent(data)
		if err == nil {
			item.FileExtent = &v
		}
	case btrfsprim.CHUNK_ITEM:
		var v Chunk
		v, err = DecodeChunk(data)
		if err == nil {
			item.Chunk = &v
		}
	case btrfsprim.ROOT_ITEM:
		var v Root
		v, err = DecodeRoot(data)
		if err == nil {
			item.Root = &v
		}
	case btrfsprim.ROOT_REF, btrfsprim.ROOT_BACKREF:
		var v RootRef
		v, err = DecodeRootRef(data)
		if err == nil {
			item.RootRef = &v
		}
	case btrfsprim.EXTENT_CSUM:
		var v ExtentCSum
		v, err = DecodeExtentCSum(data, checksumSize)
		if err == nil {
			item.ExtentCSum = &v
		}
	default:
		err = fmt.Errorf("%w: %v", ErrUnhandledItemType, key.ItemType)
	}
	item.Err = err
	return item
}

// ErrUnhandledItemType marks an Item whose type the cataloger has no
// decoder for. It is not a failure of the underlying filesystem.
var ErrUnhandledItemType = fmt.Errorf("unhandled item type")
