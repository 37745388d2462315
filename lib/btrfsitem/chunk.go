package btrfsitem

import (
	"github.com/btrfscat/btrfscat/lib/btrfsio"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// ChunkStripe is one physical backing of a Chunk's logical range.
// Only Stripes[0] is consulted (spec.md §4.2 "single/DUP profiles
// only"); additional stripes exist for RAID profiles which are out of
// scope.
type ChunkStripe struct {
	DeviceID   uint64               // off=0x0, siz=0x8
	Offset     btrfsvol.PhysicalAddr // off=0x8, siz=0x8
	DeviceUUID btrfsprim.UUID        // off=0x10, siz=0x10
}

const chunkStripeSize = 0x20

// Chunk is the decoded payload of a CHUNK_ITEM (item type 228).
// key.ObjectID is always FIRST_CHUNK_TREE_OBJECTID; key.Offset is the
// chunk's logical start address.
type Chunk struct {
	Size       btrfsvol.AddrDelta // off=0x0, siz=0x8
	Owner      btrfsprim.ObjID    // off=0x8, siz=0x8
	StripeLen  uint64             // off=0x10, siz=0x8
	Type       uint64             // off=0x18, siz=0x8; block group profile flags
	NumStripes uint16             // off=0x2c, siz=0x2
	SubStripes uint16             // off=0x2e, siz=0x2
	Stripes    []ChunkStripe
}

const chunkHeaderSize = 0x30

// DecodeChunk decodes a CHUNK_ITEM payload.
func DecodeChunk(buf []byte) (Chunk, error) {
	if err := btrfsio.NeedBytes(buf, 0, chunkHeaderSize); err != nil {
		return Chunk{}, err
	}
	var v Chunk
	size, _ := btrfsio.U64(buf, 0x0)
	v.Size = btrfsvol.AddrDelta(size)
	owner, _ := btrfsio.U64(buf, 0x8)
	v.Owner = btrfsprim.ObjID(owner)
	v.StripeLen, _ = btrfsio.U64(buf, 0x10)
	v.Type, _ = btrfsio.U64(buf, 0x18)
	v.NumStripes, _ = btrfsio.U16(buf, 0x2c)
	v.SubStripes, _ = btrfsio.U16(buf, 0x2e)

	off := chunkHeaderSize
	for i := uint16(0); i < v.NumStripes; i++ {
		if err := btrfsio.NeedBytes(buf, off, chunkStripeSize); err != nil {
			return Chunk{}, err
		}
		deviceID, _ := btrfsio.U64(buf, off+0x0)
		offset, _ := btrfsio.U64(buf, off+0x8)
		uuid, _, err := btrfsprim.DecodeUUID(buf, off+0x10)
		if err != nil {
			return Chunk{}, err
		}
		v.Stripes = append(v.Stripes, ChunkStripe{
			DeviceID:   deviceID,
			Offset:     btrfsvol.PhysicalAddr(offset),
			DeviceUUID: uuid,
		})
		off += chunkStripeSize
	}
	return v, nil
}

// PrimaryStripe returns the chunk's first stripe, the only one the
// chunk map uses. Any further stripes are ignored; the chunk loader
// in lib/btrfstree logs a warning when a chunk has more than one.
func (c Chunk) PrimaryStripe() (ChunkStripe, bool) {
	if len(c.Stripes) == 0 {
		return ChunkStripe{}, false
	}
	return c.Stripes[0], true
}
