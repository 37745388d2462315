package btrfsfs

import (
	"context"

	"github.com/datawire/dlib/dlog"

	"github.com/btrfscat/btrfscat/lib/btrfsitem"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
	"github.com/btrfscat/btrfscat/lib/btrfstree"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// WalkSubvolume walks one subvolume's fs tree, dispatching each leaf
// item by key type into fs's accumulator maps, with every inode id
// qualified by subvolID (spec.md §4.6 "Per-subvolume traversal").
//
// INODE_EXTREF and DIR_INDEX items are decodable (see lib/btrfsitem)
// but are intentionally not consulted here: INODE_EXTREF only matters
// once a file has more hard links than INODE_REF can address, and
// DIR_INDEX duplicates DIR_ITEM's content under a different key
// purely for readdir ordering.
func (fs *FileSystem) WalkSubvolume(ctx context.Context, img *btrfsvol.Image, nodeSize uint32, subvolID btrfsprim.ObjID, root btrfsvol.LogicalAddr) {
	btrfstree.WalkItems(ctx, img, root, nodeSize, 0, func(item btrfsitem.Item) {
		id, ok := QualifyInode(subvolID, uint64(item.Key.ObjectID))
		if !ok {
			dlog.Warnf(ctx, "item %v: inode number does not fit in 48 bits, skipping", item.Key)
			return
		}

		switch {
		case item.Inode != nil:
			fs.Inodes[id] = *item.Inode

		case item.InodeRef != nil:
			parent, ok := QualifyInode(subvolID, item.Key.Offset)
			if !ok {
				dlog.Warnf(ctx, "item %v: parent inode number does not fit in 48 bits, skipping", item.Key)
				return
			}
			fs.Names[id] = item.InodeRef.Name
			fs.Parents[id] = parent

		case item.DirEntries != nil && item.Key.ItemType == btrfsprim.XATTR_ITEM:
			for _, e := range item.DirEntries {
				fs.XAttrs[id] = append(fs.XAttrs[id], XAttr{Name: e.Name, Value: e.Data})
			}

		case item.DirEntries != nil && item.Key.ItemType == btrfsprim.DIR_ITEM:
			fs.DirEntries[id] = append(fs.DirEntries[id], item.DirEntries...)

		case item.FileExtent != nil:
			fe := item.FileExtent
			fs.Extents[id] = append(fs.Extents[id], Extent{
				FileOffset:   int64(item.Key.Offset),
				Type:         fe.Type,
				Compression:  fe.Compression,
				RAMBytes:     fe.RAMBytes,
				InlineData:   fe.BodyInline,
				DiskByteNr:   fe.BodyExtent.DiskByteNr,
				DiskNumBytes: fe.BodyExtent.DiskNumBytes,
				ExtentOffset: fe.BodyExtent.Offset,
				NumBytes:     fe.BodyExtent.NumBytes,
			})
		}
	})
}

// WalkChecksums walks the checksum tree and records a sector-sum
// count per logical address (spec.md §4.6 "Checksum tree pass").
func (fs *FileSystem) WalkChecksums(ctx context.Context, img *btrfsvol.Image, nodeSize uint32, csumTreeRoot btrfsvol.LogicalAddr, checksumSize int) {
	if checksumSize <= 0 {
		checksumSize = 4 // CRC32C, the default and only algorithm this cataloger assumes
	}
	btrfstree.WalkItems(ctx, img, csumTreeRoot, nodeSize, checksumSize, func(item btrfsitem.Item) {
		if item.ExtentCSum == nil {
			return
		}
		fs.Checksums[btrfsvol.LogicalAddr(item.Key.Offset)] = len(item.ExtentCSum.Sums)
	})
}
