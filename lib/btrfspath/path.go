// Package btrfspath builds full filesystem paths from the parent-link
// chain a FileSystem accumulates (spec.md §4.7).
package btrfspath

import (
	"strings"

	"github.com/btrfscat/btrfscat/lib/btrfsfs"
)

// MaxDepth bounds how many parent hops are followed before giving up
// and reporting the chain as broken.
const MaxDepth = 100

// BrokenPrefix marks a path that could not be fully resolved because
// the parent chain cycled or exceeded MaxDepth.
const BrokenPrefix = "<broken>"

// Build walks names and parents upward from id until no parent is
// recorded, returning the joined path rooted at '/'. A cycle or a
// chain longer than MaxDepth yields a path prefixed with
// BrokenPrefix containing whatever was collected before the guard
// tripped.
func Build(names map[btrfsfs.InodeID][]byte, parents map[btrfsfs.InodeID]btrfsfs.InodeID, id btrfsfs.InodeID) string {
	var parts []string
	seen := make(map[btrfsfs.InodeID]bool)

	cur := id
	broken := false
	for depth := 0; ; depth++ {
		if seen[cur] {
			broken = true
			break
		}
		seen[cur] = true

		parent, hasParent := parents[cur]
		if !hasParent {
			break
		}
		if depth >= MaxDepth {
			broken = true
			break
		}
		if name, ok := names[cur]; ok && len(name) > 0 {
			parts = append(parts, string(name))
		}
		cur = parent
	}

	// parts were collected child-to-root; reverse to root-to-child.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	path := "/" + strings.Join(parts, "/")
	if broken {
		return BrokenPrefix + "/" + strings.Join(parts, "/")
	}
	return path
}
