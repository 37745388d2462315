// Package btrfscat wires the superblock reader, chunk map, tree
// walker, filesystem reconstructor, and catalog emitter into the
// single top-level Parse operation (spec.md §6).
package btrfscat

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"

	"github.com/btrfscat/btrfscat/lib/btrfsfs"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
	"github.com/btrfscat/btrfscat/lib/btrfstree"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
	"github.com/btrfscat/btrfscat/lib/catalog"
)

// Options controls the depth of a Parse run (spec.md §6).
type Options struct {
	// InfoOnly stops after reading the superblock; Parse returns it
	// with a nil FileEntry slice.
	InfoOnly bool

	// Verbose turns on progress logging on ctx's logger as each phase
	// starts, rather than just warnings for damaged records.
	Verbose bool
}

// Parse opens imagePath, locates the BTRFS superblock at
// partitionOffset+0x10000, and — unless opts.InfoOnly — reconstructs
// the full filesystem and emits one catalog.FileEntry per inode
// across every discovered subvolume.
func Parse(ctx context.Context, imagePath string, partitionOffset int64, opts Options) (*btrfstree.Superblock, []catalog.FileEntry, error) {
	fh, err := os.Open(imagePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening image: %w", err)
	}
	defer fh.Close()

	if opts.Verbose {
		dlog.Infof(ctx, "reading superblock at partition offset %#x", partitionOffset)
	}
	sb, err := btrfstree.ReadSuperblock(fh, partitionOffset)
	if err != nil {
		return nil, nil, err
	}

	if opts.InfoOnly {
		return sb, nil, nil
	}

	chunks := btrfsvol.NewChunkMap(partitionOffset)
	btrfstree.BootstrapChunkMap(ctx, chunks, sb)
	img := &btrfsvol.Image{ReaderAt: fh, Chunks: chunks}

	if opts.Verbose {
		dlog.Info(ctx, "walking chunk tree")
	}
	btrfstree.PopulateChunkMap(ctx, img, chunks, sb.ChunkRoot, sb.NodeSize)

	fsys := btrfsfs.New()

	if opts.Verbose {
		dlog.Info(ctx, "walking root tree")
	}
	reserved := fsys.DiscoverRoots(ctx, img, sb)

	for id, sv := range fsys.Subvolumes {
		if opts.Verbose {
			dlog.Infof(ctx, "walking subvolume %v", id)
		}
		fsys.WalkSubvolume(ctx, img, sb.NodeSize, id, sv.TreeRoot)
	}

	if csumRoot, ok := reserved[btrfsprim.CSUM_TREE_OBJECTID]; ok {
		if opts.Verbose {
			dlog.Info(ctx, "walking checksum tree")
		}
		fsys.WalkChecksums(ctx, img, sb.NodeSize, csumRoot, 4)
	} else {
		dlog.Warn(ctx, "no checksum tree root found; checksum counts will be zero")
	}

	if opts.Verbose {
		dlog.Info(ctx, "resolving user and group names")
	}
	names := catalog.ResolveNames(ctx, img, fsys)

	if opts.Verbose {
		dlog.Info(ctx, "emitting catalog entries")
	}
	entries := catalog.Emit(ctx, img, fsys, names, true)

	return sb, entries, nil
}
