package btrfstree

import (
	"fmt"

	"github.com/btrfscat/btrfscat/lib/btrfsio"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// HeaderSize is the fixed size of a tree block's header (spec.md §3).
const HeaderSize = 101

// ItemSize is the fixed size of one leaf item record (key + data
// pointer), not counting the item's variable-length payload.
const ItemSize = 25

// KeyPointerSize is the fixed size of one internal-node key pointer.
const KeyPointerSize = 33

// Header is the fixed-size prefix of every tree block.
type Header struct {
	Bytenr   btrfsvol.LogicalAddr // off=0x30, siz=0x8 (advisory: the block's own logical address)
	NumItems uint32               // off=0x60, siz=0x4
	Level    uint8                // off=0x64, siz=0x1 (0 = leaf)
}

// DecodeHeader decodes the 101-byte tree block header at buf[0:101].
func DecodeHeader(buf []byte) (Header, error) {
	if err := btrfsio.NeedBytes(buf, 0, HeaderSize); err != nil {
		return Header{}, err
	}
	bytenr, _ := btrfsio.U64(buf, 0x30)
	numItems, _ := btrfsio.U32(buf, 0x60)
	level, _ := btrfsio.U8(buf, 0x64)
	return Header{
		Bytenr:   btrfsvol.LogicalAddr(bytenr),
		NumItems: numItems,
		Level:    level,
	}, nil
}

// KeyPointer is one entry in an internal node: a key plus the
// logical address of the child block that owns that key range.
type KeyPointer struct {
	Key           btrfsprim.Key
	ChildBlockPtr btrfsvol.LogicalAddr // off=0x11, siz=0x8
	Generation    btrfsprim.Generation // off=0x19, siz=0x8
}

// DecodeKeyPointer decodes a 33-byte key pointer at buf[off:off+33].
func DecodeKeyPointer(buf []byte, off int) (KeyPointer, error) {
	if err := btrfsio.NeedBytes(buf, off, KeyPointerSize); err != nil {
		return KeyPointer{}, err
	}
	key, _, err := btrfsprim.DecodeKey(buf, off)
	if err != nil {
		return KeyPointer{}, err
	}
	blockPtr, _ := btrfsio.U64(buf, off+0x11)
	gen, _ := btrfsio.U64(buf, off+0x19)
	return KeyPointer{
		Key:           key,
		ChildBlockPtr: btrfsvol.LogicalAddr(blockPtr),
		Generation:    btrfsprim.Generation(gen),
	}, nil
}

// ItemHeader is one entry in a leaf node's item array: the item's key
// plus the location of its payload within the block.
type ItemHeader struct {
	Key        btrfsprim.Key
	DataOffset uint32 // off=0x11, siz=0x4, relative to end of block Header (byte 101)
	DataSize   uint32 // off=0x15, siz=0x4
}

// DecodeItemHeader decodes a 25-byte item header at buf[off:off+25].
func DecodeItemHeader(buf []byte, off int) (ItemHeader, error) {
	if err := btrfsio.NeedBytes(buf, off, ItemSize); err != nil {
		return ItemHeader{}, err
	}
	key, _, err := btrfsprim.DecodeKey(buf, off)
	if err != nil {
		return ItemHeader{}, err
	}
	dataOffset, _ := btrfsio.U32(buf, off+0x11)
	dataSize, _ := btrfsio.U32(buf, off+0x15)
	return ItemHeader{
		Key:        key,
		DataOffset: dataOffset,
		DataSize:   dataSize,
	}, nil
}

// RawItem is a leaf item with its header and its raw (undecoded,
// item-type-dispatched decoding happens in btrfsitem) payload bytes.
type RawItem struct {
	Key  btrfsprim.Key
	Data []byte
}

// RawNode is a decoded tree block: either a leaf's items or an
// internal node's key pointers, never both.
type RawNode struct {
	Header     Header
	KeyPointers []KeyPointer // populated when Header.Level > 0
	Items       []RawItem    // populated when Header.Level == 0
}

// DecodeNode decodes a full nodesize-byte tree block. Items whose
// payload would run past the end of the block are skipped (WalkTree
// logs a warning when a leaf yields fewer items than its header
// counts); this never fails the whole
// decode, per spec.md §4.4 "Edge cases".
func DecodeNode(buf []byte) (*RawNode, error) {
	head, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	node := &RawNode{Header: head}

	if head.Level > 0 {
		off := HeaderSize
		for i := uint32(0); i < head.NumItems; i++ {
			kp, err := DecodeKeyPointer(buf, off)
			if err != nil {
				break
			}
			node.KeyPointers = append(node.KeyPointers, kp)
			off += KeyPointerSize
		}
		return node, nil
	}

	off := HeaderSize
	for i := uint32(0); i < head.NumItems; i++ {
		ih, err := DecodeItemHeader(buf, off)
		if err != nil {
			break
		}
		off += ItemSize

		start := HeaderSize + int(ih.DataOffset)
		end := start + int(ih.DataSize)
		if start < HeaderSize || end > len(buf) || start > end {
			continue // TruncatedRecord: payload runs past the block; skip with a warning upstream
		}
		node.Items = append(node.Items, RawItem{
			Key:  ih.Key,
			Data: buf[start:end],
		})
	}
	return node, nil
}

// MaxItems returns how many items (level 0) or key pointers (level >
// 0) fit in a node of this nodesize. DecodeNode does not consult it.
func MaxItems(nodeSize uint32, level uint8) uint32 {
	body := nodeSize - HeaderSize
	if level > 0 {
		return body / KeyPointerSize
	}
	return body / ItemSize
}

func (h Header) String() string {
	return fmt.Sprintf("node@%v level=%d nritems=%d", h.Bytenr, h.Level, h.NumItems)
}
