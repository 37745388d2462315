package catalog

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/datawire/dlib/dlog"

	"github.com/btrfscat/btrfscat/lib/btrfsextent"
	"github.com/btrfscat/btrfscat/lib/btrfsfs"
	"github.com/btrfscat/btrfscat/lib/btrfsitem"
	"github.com/btrfscat/btrfscat/lib/btrfspath"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// Emit walks the accumulated FileSystem and produces one FileEntry per
// inode, in subvolume-then-inode-number order. Content hashes are only
// computed for regular files whose extents fully reassemble; a failed
// or skipped reassembly just leaves MD5/SHA256 empty rather than
// aborting the whole run (spec.md §4.9, §7 "Partial results").
func Emit(ctx context.Context, img *btrfsvol.Image, fs *btrfsfs.FileSystem, names NameTables, computeHashes bool) []FileEntry {
	ids := make([]btrfsfs.InodeID, 0, len(fs.Inodes))
	for id := range fs.Inodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	entries := make([]FileEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, emitOne(ctx, img, fs, names, id, computeHashes))
	}
	return entries
}

func emitOne(ctx context.Context, img *btrfsvol.Image, fs *btrfsfs.FileSystem, names NameTables, id btrfsfs.InodeID, computeHashes bool) FileEntry {
	inode := fs.Inodes[id]
	extents := fs.Extents[id]

	e := FileEntry{
		InodeNumber: id.InodeNumber(),
		SubvolumeID: id.Subvolume(),
		Name:        string(fs.Names[id]),
		Path:        btrfspath.Build(fs.Names, fs.Parents, id),
		Size:        inode.Size,
		TypeString:  modeTypeString(uint32(inode.Mode)),
		Mode:        uint32(inode.Mode),
		ModeString:  modeString(uint32(inode.Mode)),
		UID:         inode.UID,
		GID:         inode.GID,
		NLink:       inode.NLink,
		ATime:       inode.ATime.ISO8601(),
		CTime:       inode.CTime.ISO8601(),
		MTime:       inode.MTime.ISO8601(),
		OTime:       inode.OTime.ISO8601(),
		Generation:  uint64(inode.Generation),
		TransID:     inode.TransID,
		Flags:       uint64(inode.Flags),
		FlagString:  flagString(inode.Flags),
		XAttrCount:  len(fs.XAttrs[id]),
		ExtentCount: len(extents),
	}

	if names.Users != nil {
		e.UIDName = names.Users[inode.UID]
	}
	if names.Groups != nil {
		e.GIDName = names.Groups[inode.GID]
	}
	if parent, ok := fs.Parents[id]; ok {
		e.ParentInode = parent.InodeNumber()
	}

	for _, ext := range extents {
		e.DiskBytes += int64(ext.DiskNumBytes)
		if n, ok := fs.Checksums[ext.DiskByteNr]; ok {
			e.ChecksumCount += n
		}
	}

	if off := firstRegularExtentOffset(img, extents); off != nil {
		e.PhysicalOffset = off
	}

	if computeHashes && linuxModeIsRegular(e.Mode) && len(extents) > 0 {
		data, err := btrfsextent.Reassemble(ctx, img, extents, inode.Size)
		if err != nil {
			dlog.Warnf(ctx, "inode %v: content hash skipped: %v", id, err)
		} else {
			md5sum := md5.Sum(data)
			sha := sha256.Sum256(data)
			e.MD5 = hex.EncodeToString(md5sum[:])
			e.SHA256 = hex.EncodeToString(sha[:])
		}
	}

	return e
}

func linuxModeIsRegular(mode uint32) bool {
	const fmtMask = 0o170000
	return mode&fmtMask == 0o100000
}

func firstRegularExtentOffset(img *btrfsvol.Image, extents []btrfsfs.Extent) *int64 {
	for _, ext := range extents {
		if ext.Type == btrfsitem.FILE_EXTENT_INLINE || ext.DiskByteNr == 0 {
			continue
		}
		off, err := img.Chunks.Translate(ext.DiskByteNr)
		if err != nil {
			continue
		}
		return &off
	}
	return nil
}
