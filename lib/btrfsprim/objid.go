// Package btrfsprim holds the primitive, tree-independent BTRFS types:
// object IDs, item-type tags, keys, generations, timestamps and UUIDs.
package btrfsprim

import "fmt"

// ObjID is a BTRFS object ID. Its meaning is overloaded by which tree
// it appears in: in an fs tree it is an inode number, in the root
// tree it identifies a subvolume, and so on.
type ObjID uint64

// Well-known tree object IDs (spec.md §6).
const (
	ROOT_TREE_OBJECTID     ObjID = 1
	EXTENT_TREE_OBJECTID   ObjID = 2
	CHUNK_TREE_OBJECTID    ObjID = 3
	DEV_TREE_OBJECTID      ObjID = 4
	FS_TREE_OBJECTID       ObjID = 5
	ROOT_TREE_DIR_OBJECTID ObjID = 6
	CSUM_TREE_OBJECTID     ObjID = 7

	FIRST_FREE_OBJECTID ObjID = 256

	// FIRST_CHUNK_TREE_OBJECTID is the key.ObjectID every CHUNK_ITEM
	// carries; it shares FIRST_FREE_OBJECTID's numeric value but is a
	// distinct constant by convention within the chunk tree.
	FIRST_CHUNK_TREE_OBJECTID ObjID = 256
)

var wellKnownNames = map[ObjID]string{
	ROOT_TREE_OBJECTID:     "ROOT_TREE",
	EXTENT_TREE_OBJECTID:   "EXTENT_TREE",
	CHUNK_TREE_OBJECTID:    "CHUNK_TREE",
	DEV_TREE_OBJECTID:      "DEV_TREE",
	FS_TREE_OBJECTID:       "FS_TREE",
	ROOT_TREE_DIR_OBJECTID: "ROOT_TREE_DIR",
	CSUM_TREE_OBJECTID:     "CSUM_TREE",
}

func (id ObjID) String() string {
	if name, ok := wellKnownNames[id]; ok {
		return name
	}
	return fmt.Sprintf("%d", uint64(id))
}

// IsReservedTree reports whether id names one of the fixed trees
// (1-7) other than FS_TREE_OBJECTID. Reserved trees are never treated
// as subvolumes during root-tree discovery.
func (id ObjID) IsReservedTree() bool {
	return id >= 1 && id <= 7 && id != FS_TREE_OBJECTID
}

// IsSubvolumeCandidate reports whether id is in the range that
// ROOT_ITEMs for subvolumes/snapshots live in: the default fs tree,
// or any user-created id.
func (id ObjID) IsSubvolumeCandidate() bool {
	return id == FS_TREE_OBJECTID || id >= FIRST_FREE_OBJECTID
}
