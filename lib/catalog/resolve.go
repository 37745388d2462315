package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/btrfscat/btrfscat/lib/btrfsextent"
	"github.com/btrfscat/btrfscat/lib/btrfsfs"
	"github.com/btrfscat/btrfscat/lib/btrfspath"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// NameTables holds the uid/gid to name mappings resolved from
// /etc/passwd and /etc/group, if those files could be found and
// reassembled (spec.md §4.9 "Name resolver").
type NameTables struct {
	Users  map[uint32]string
	Groups map[uint32]string
}

var passwdPaths = []string{"/etc/passwd", "/root/etc/passwd"}
var groupPaths = []string{"/etc/group", "/root/etc/group"}

// ResolveNames locates /etc/passwd and /etc/group by full path among
// the reconstructed filesystem's inodes, reassembles their content,
// and parses uid/gid to name mappings. Any failure (file absent,
// unreadable, malformed) is silent: the corresponding table is
// simply empty, per spec.md §4.9 "Lookup failures are silent".
func ResolveNames(ctx context.Context, img *btrfsvol.Image, fs *btrfsfs.FileSystem) NameTables {
	paths := buildPathIndex(fs)
	return NameTables{
		Users:  resolveTable(ctx, img, fs, paths, passwdPaths, parsePasswd),
		Groups: resolveTable(ctx, img, fs, paths, groupPaths, parseGroup),
	}
}

func buildPathIndex(fs *btrfsfs.FileSystem) map[string]btrfsfs.InodeID {
	idx := make(map[string]btrfsfs.InodeID, len(fs.Inodes))
	for id := range fs.Inodes {
		idx[btrfspath.Build(fs.Names, fs.Parents, id)] = id
	}
	return idx
}

func resolveTable(ctx context.Context, img *btrfsvol.Image, fs *btrfsfs.FileSystem, paths map[string]btrfsfs.InodeID, candidates []string, parse func([]byte) map[uint32]string) map[uint32]string {
	for _, p := range candidates {
		id, ok := paths[p]
		if !ok {
			continue
		}
		inode, ok := fs.Inodes[id]
		if !ok {
			continue
		}
		data, err := btrfsextent.Reassemble(ctx, img, fs.Extents[id], inode.Size)
		if err != nil {
			continue
		}
		return parse(data)
	}
	return nil
}

func parsePasswd(data []byte) map[uint32]string {
	out := make(map[uint32]string)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Split(line, ":")
		if len(fields) < 3 {
			continue
		}
		uid, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			continue
		}
		out[uint32(uid)] = fields[0]
	}
	return out
}

func parseGroup(data []byte) map[uint32]string {
	out := make(map[uint32]string)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Split(line, ":")
		if len(fields) < 3 {
			continue
		}
		gid, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			continue
		}
		out[uint32(gid)] = fields[0]
	}
	return out
}
