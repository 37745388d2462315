// Package btrfsfs reconstructs a merged, subvolume-qualified view of a
// BTRFS filesystem's inodes, names, directory entries and extents by
// walking the root tree and every subvolume's fs tree (spec.md §4.6).
package btrfsfs

import (
	"fmt"

	"github.com/btrfscat/btrfscat/lib/btrfsprim"
)

// InodeID is a subvolume-qualified inode identifier: the subvolume's
// object id in the upper 16 bits, the inode number in the lower 48.
// This lets inodes from distinct subvolumes (which each number their
// inodes independently, starting at 256 for the root directory)
// coexist in one flat map without collision.
type InodeID uint64

const inodeNumberMask = (uint64(1) << 48) - 1

// QualifyInode combines a subvolume id and a raw inode number into an
// InodeID. It reports ok=false if ino does not fit in 48 bits, which
// would indicate a corrupt or adversarial image; callers decoding
// untrusted on-disk fields are expected to skip the record and log a
// warning rather than treat this as fatal.
func QualifyInode(subvol btrfsprim.ObjID, ino uint64) (id InodeID, ok bool) {
	if ino > inodeNumberMask {
		return 0, false
	}
	return InodeID(uint64(subvol)<<48 | ino), true
}

// Subvolume returns the subvolume id encoded in id's upper 16 bits.
func (id InodeID) Subvolume() btrfsprim.ObjID {
	return btrfsprim.ObjID(uint64(id) >> 48)
}

// InodeNumber returns the raw (per-subvolume) inode number encoded in
// id's lower 48 bits.
func (id InodeID) InodeNumber() uint64 {
	return uint64(id) & inodeNumberMask
}

func (id InodeID) String() string {
	return fmt.Sprintf("%v:%d", id.Subvolume(), id.InodeNumber())
}
