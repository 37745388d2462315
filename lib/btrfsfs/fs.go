package btrfsfs

import (
	"github.com/btrfscat/btrfscat/lib/btrfsitem"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// XAttr is one extended attribute recorded against an inode.
type XAttr struct {
	Name  []byte
	Value []byte
}

// Extent is one EXTENT_DATA item belonging to an inode, retaining
// enough of the decoded payload for the extent reassembler
// (spec.md §4.8) without needing to re-walk the tree.
type Extent struct {
	FileOffset   int64 // key.Offset of the EXTENT_DATA item
	Type         btrfsitem.FileExtentType
	Compression  btrfsitem.CompressionType
	RAMBytes     int64
	InlineData   []byte
	DiskByteNr   btrfsvol.LogicalAddr
	DiskNumBytes btrfsvol.AddrDelta
	ExtentOffset btrfsvol.AddrDelta
	NumBytes     int64
}

// Subvolume is one ROOT_ITEM discovered in the root tree that
// qualifies as a subvolume (the default fs tree, or any user-created
// snapshot/subvolume), plus whatever naming information its ROOT_REF
// entry carried.
type Subvolume struct {
	ID         btrfsprim.ObjID
	RootInode  btrfsprim.ObjID // the Root.Inode's own id, always 256
	TreeRoot   btrfsvol.LogicalAddr
	Generation btrfsprim.Generation

	// Name and ParentID are populated from this subvolume's ROOT_REF
	// entry in the parent root tree, if one was found. The default fs
	// tree (id 5) generally has neither.
	Name     string
	ParentID btrfsprim.ObjID
}

// FileSystem is the single-pass accumulator that the root tree walk
// and every subvolume's fs tree walk write into. It holds the entire
// reconstructed filesystem in memory; there is no lazy loading and no
// mutation once record emission begins (spec.md §3 "Lifecycle").
type FileSystem struct {
	Subvolumes map[btrfsprim.ObjID]*Subvolume

	Inodes     map[InodeID]btrfsitem.Inode
	Names      map[InodeID][]byte
	Parents    map[InodeID]InodeID
	DirEntries map[InodeID][]btrfsitem.DirEntry
	XAttrs     map[InodeID][]XAttr
	Extents    map[InodeID][]Extent

	// Checksums maps a disk logical address to the number of 4-byte
	// CRC32C sums recorded for the sector range starting there
	// (spec.md §4.6 "Checksum tree pass").
	Checksums map[btrfsvol.LogicalAddr]int
}

// New returns an empty FileSystem ready for DiscoverRoots and
// WalkSubvolume.
func New() *FileSystem {
	return &FileSystem{
		Subvolumes: make(map[btrfsprim.ObjID]*Subvolume),
		Inodes:     make(map[InodeID]btrfsitem.Inode),
		Names:      make(map[InodeID][]byte),
		Parents:    make(map[InodeID]InodeID),
		DirEntries: make(map[InodeID][]btrfsitem.DirEntry),
		XAttrs:     make(map[InodeID][]XAttr),
		Extents:    make(map[InodeID][]Extent),
		Checksums:  make(map[btrfsvol.LogicalAddr]int),
	}
}
