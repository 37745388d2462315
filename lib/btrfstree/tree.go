package btrfstree

import (
	"context"
	"fmt"

	"github.com/datawire/dlib/dlog"

	"github.com/btrfscat/btrfscat/lib/btrfsprim"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// ReadTreeBlock reads and decodes the nodesize-byte tree block at the
// given logical address.
func ReadTreeBlock(img *btrfsvol.Image, addr btrfsvol.LogicalAddr, nodeSize uint32) (*RawNode, error) {
	buf := make([]byte, nodeSize)
	if err := img.ReadLogical(addr, buf); err != nil {
		return nil, fmt.Errorf("reading tree block at %v: %w", addr, err)
	}
	node, err := DecodeNode(buf)
	if err != nil {
		return nil, fmt.Errorf("decoding tree block at %v: %w", addr, err)
	}
	return node, nil
}

// Visitor is called once per leaf item encountered by WalkTree, in
// left-to-right key order.
type Visitor func(item RawItem)

// WalkTree walks the tree rooted at addr depth-first, left to right,
// calling visit for every leaf item. It guards against cycles with a
// per-call visited-set: a block address revisited within the same
// walk is skipped with a warning rather than causing infinite
// recursion (spec.md §4.4 "Cycle safety"). Any other read/decode
// error on a child block is likewise logged and skipped, not fatal to
// the walk (spec.md §7, TruncatedRecord/ShortRead are localized).
func WalkTree(ctx context.Context, img *btrfsvol.Image, root btrfsvol.LogicalAddr, nodeSize uint32, visit Visitor) {
	visited := make(map[btrfsvol.LogicalAddr]bool)
	walk(ctx, img, root, nodeSize, visit, visited, 0)
}

const maxTreeDepth = 64

func walk(ctx context.Context, img *btrfsvol.Image, addr btrfsvol.LogicalAddr, nodeSize uint32, visit Visitor, visited map[btrfsvol.LogicalAddr]bool, depth int) {
	if depth > maxTreeDepth {
		dlog.Warnf(ctx, "tree walk: depth exceeded at %v, treating as cycle", addr)
		return
	}
	if visited[addr] {
		dlog.Warnf(ctx, "tree walk: cycle detected, block %v already visited", addr)
		return
	}
	visited[addr] = true

	node, err := ReadTreeBlock(img, addr, nodeSize)
	if err != nil {
		dlog.Warnf(ctx, "tree walk: %v", err)
		return
	}

	if node.Header.Level > 0 {
		for _, kp := range node.KeyPointers {
			walk(ctx, img, kp.ChildBlockPtr, nodeSize, visit, visited, depth+1)
		}
		return
	}

	if got := uint32(len(node.Items)); got < node.Header.NumItems {
		dlog.Warnf(ctx, "tree walk: block %v: skipped %d of %d items whose header or payload runs past the block", addr, node.Header.NumItems-got, node.Header.NumItems)
	}
	for _, item := range node.Items {
		visit(item)
	}
}

// SearchTree walks the tree rooted at addr and calls visit only for
// leaf items whose key matches objID, and, if matchType is non-nil,
// also matches the given item type.
func SearchTree(ctx context.Context, img *btrfsvol.Image, root btrfsvol.LogicalAddr, nodeSize uint32, objID btrfsprim.ObjID, matchType *btrfsprim.ItemType, visit Visitor) {
	WalkTree(ctx, img, root, nodeSize, func(item RawItem) {
		if item.Key.ObjectID != objID {
			return
		}
		if matchType != nil && item.Key.ItemType != *matchType {
			return
		}
		visit(item)
	})
}
