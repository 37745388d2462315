package catalog

import "github.com/btrfscat/btrfscat/lib/linux"

// modeString renders mode in ls(1) "-rwxr-xr-x" style, reusing the
// POSIX mode formatter rather than duplicating its bit layout here.
func modeString(mode uint32) string {
	return linux.StatMode(mode).String()
}
