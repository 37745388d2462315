// Package catalog formats the reconstructed filesystem into the
// FileEntry output records downstream formatters consume
// (spec.md §4.9, §3 "FileEntry").
package catalog

import "github.com/btrfscat/btrfscat/lib/btrfsprim"

// FileEntry is one emitted row of the catalog: an inode's full
// metadata plus the path it was found at.
type FileEntry struct {
	InodeNumber uint64
	SubvolumeID btrfsprim.ObjID
	Name        string
	Path        string
	Size        int64
	TypeString  string
	Mode        uint32
	ModeString  string
	UID         uint32
	UIDName     string // empty if unresolved
	GID         uint32
	GIDName     string // empty if unresolved
	NLink       uint32
	ATime       string
	CTime       string
	MTime       string
	OTime       string
	ParentInode uint64
	Generation  uint64
	TransID     int64
	Flags       uint64
	FlagString  string
	XAttrCount  int
	ExtentCount int
	DiskBytes   int64

	PhysicalOffset *int64 // nil if the inode has no regular extents

	ChecksumCount int
	MD5           string // empty if not computed
	SHA256        string // empty if not computed
}

// modeTypeString classifies mode's high bits per spec.md §4.9.
func modeTypeString(mode uint32) string {
	const fmtMask = 0o170000
	switch mode & fmtMask {
	case 0o100000:
		return "file"
	case 0o040000:
		return "directory"
	case 0o120000:
		return "symlink"
	case 0o020000:
		return "char_device"
	case 0o060000:
		return "block_device"
	case 0o010000:
		return "fifo"
	case 0o140000:
		return "socket"
	default:
		return "unknown"
	}
}
