package btrfstree

import (
	"context"

	"github.com/datawire/dlib/dlog"

	"github.com/btrfscat/btrfscat/lib/btrfsio"
	"github.com/btrfscat/btrfscat/lib/btrfsitem"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// BootstrapChunkMap decodes the superblock's sys_chunk_array, a flat
// sequence of (Key, Chunk) pairs covering just enough of the logical
// address space to read the chunk tree itself, and records each one
// in chunks (spec.md §4.5 "Chunk bootstrap"). Stops at the first
// malformed record rather than failing the whole parse, keeping
// whatever mappings were already decoded: only NotBtrfs is fatal
// (spec.md §7).
func BootstrapChunkMap(ctx context.Context, chunks *btrfsvol.ChunkMap, sb *Superblock) {
	buf := sb.SysChunkArray
	off := 0
	for off < len(buf) {
		key, n, err := btrfsprim.DecodeKey(buf, off)
		if err != nil {
			dlog.Warnf(ctx, "sys_chunk_array: %v, stopping bootstrap early", err)
			return
		}
		off += n
		if key.ItemType != btrfsprim.CHUNK_ITEM {
			dlog.Warnf(ctx, "sys_chunk_array: unexpected item type %v at offset %#x, stopping bootstrap early", key.ItemType, off)
			return
		}
		chunk, err := btrfsitem.DecodeChunk(buf[off:])
		if err != nil {
			dlog.Warnf(ctx, "sys_chunk_array: %v, stopping bootstrap early", err)
			return
		}
		addChunkMapping(ctx, chunks, key, chunk)

		consumed := chunkByteSize(chunk)
		if consumed == 0 {
			dlog.Warnf(ctx, "%v: sys_chunk_array: chunk with no stripes, stopping bootstrap early", btrfsio.ErrTruncatedRecord)
			return
		}
		off += consumed
	}
}

// PopulateChunkMap walks the full chunk tree (rooted at sb.ChunkRoot)
// and records every CHUNK_ITEM found, overriding any bootstrap
// mapping that covers the same logical start (spec.md §4.5).
func PopulateChunkMap(ctx context.Context, img *btrfsvol.Image, chunks *btrfsvol.ChunkMap, root btrfsvol.LogicalAddr, nodeSize uint32) {
	WalkItems(ctx, img, root, nodeSize, 0, func(item btrfsitem.Item) {
		if item.Chunk == nil {
			return
		}
		addChunkMapping(ctx, chunks, item.Key, *item.Chunk)
	})
}

func addChunkMapping(ctx context.Context, chunks *btrfsvol.ChunkMap, key btrfsprim.Key, chunk btrfsitem.Chunk) {
	stripe, ok := chunk.PrimaryStripe()
	if !ok {
		dlog.Warnf(ctx, "chunk at logical %#x has no stripes, skipping", key.Offset)
		return
	}
	if len(chunk.Stripes) > 1 {
		dlog.Warnf(ctx, "chunk at logical %#x has %d stripes (profile other than single/DUP); using stripe 0 only", key.Offset, len(chunk.Stripes))
	}
	chunks.Add(btrfsvol.LogicalAddr(key.Offset), chunk.Size, stripe.Offset)
}

// chunkByteSize returns the on-disk size of a Chunk's encoding, used
// to advance past it within the flat sys_chunk_array buffer.
func chunkByteSize(c btrfsitem.Chunk) int {
	const chunkHeaderSize = 0x30
	const chunkStripeSize = 0x20
	if len(c.Stripes) == 0 {
		return 0
	}
	return chunkHeaderSize + len(c.Stripes)*chunkStripeSize
}
