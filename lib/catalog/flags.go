package catalog

import "github.com/btrfscat/btrfscat/lib/btrfsitem"

// flagNames mirrors the bit order of btrfsitem.InodeFlags, used for
// the comma-joined flag string in a FileEntry (spec.md §4.9, §6).
var flagNames = []string{
	"NODATASUM",
	"NODATACOW",
	"READONLY",
	"NOCOMPRESS",
	"PREALLOC",
	"SYNC",
	"IMMUTABLE",
	"APPEND",
	"NODUMP",
	"NOATIME",
	"DIRSYNC",
	"COMPRESS",
}

// flagString renders flags as a comma-joined list of set bit names,
// with no hex prefix (btrfsitem.InodeFlags.String uses a different,
// debug-oriented rendering with a hex prefix; the catalog output
// wants just the names).
func flagString(flags btrfsitem.InodeFlags) string {
	var out string
	for i, name := range flagNames {
		if flags&(1<<i) != 0 {
			if out != "" {
				out += ","
			}
			out += name
		}
	}
	return out
}
