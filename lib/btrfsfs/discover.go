package btrfsfs

import (
	"context"

	"github.com/btrfscat/btrfscat/lib/btrfsitem"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
	"github.com/btrfscat/btrfscat/lib/btrfstree"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// ReservedTreeRoots holds the root block addresses of the fixed
// trees (1-7, excluding FS_TREE) discovered while walking the root
// tree, keyed by their object id. The cataloger only needs
// CSUM_TREE_OBJECTID out of this set, but the others are captured for
// completeness since the walk sees them for free.
type ReservedTreeRoots map[btrfsprim.ObjID]btrfsvol.LogicalAddr

// DiscoverRoots walks the root tree and populates fs.Subvolumes with
// every ROOT_ITEM that qualifies as a subvolume (spec.md §4.6
// "Subvolume discovery"), returning separately the root addresses of
// the reserved trees (notably CSUM_TREE) found along the way.
func (fs *FileSystem) DiscoverRoots(ctx context.Context, img *btrfsvol.Image, sb *btrfstree.Superblock) ReservedTreeRoots {
	reserved := make(ReservedTreeRoots)

	// ROOT_REF items are keyed by the *parent* subvolume's object id,
	// so one can be visited before the ROOT_ITEM of the child it
	// names (items are visited in key order, and a numerically lower
	// parent id sorts first). Buffer them and apply after the walk.
	type pendingRef struct {
		childID  btrfsprim.ObjID
		parentID btrfsprim.ObjID
		name     string
	}
	var pending []pendingRef

	btrfstree.WalkItems(ctx, img, sb.Root, sb.NodeSize, 0, func(item btrfsitem.Item) {
		switch {
		case item.Root != nil:
			id := item.Key.ObjectID
			switch {
			case id.IsSubvolumeCandidate():
				fs.Subvolumes[id] = &Subvolume{
					ID:         id,
					RootInode:  btrfsprim.FIRST_FREE_OBJECTID,
					TreeRoot:   item.Root.ByteNr,
					Generation: item.Root.Inode.Generation,
				}
			case id.IsReservedTree():
				reserved[id] = item.Root.ByteNr
			}
		case item.RootRef != nil && item.Key.ItemType == btrfsprim.ROOT_REF:
			pending = append(pending, pendingRef{
				childID:  btrfsprim.ObjID(item.Key.Offset),
				parentID: item.Key.ObjectID,
				name:     string(item.RootRef.Name),
			})
		}
	})

	for _, p := range pending {
		if sv, ok := fs.Subvolumes[p.childID]; ok {
			sv.Name = p.name
			sv.ParentID = p.parentID
		}
	}

	return reserved
}
