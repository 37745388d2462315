package btrfstree

import (
	"context"
	"errors"

	"github.com/datawire/dlib/dlog"

	"github.com/btrfscat/btrfscat/lib/btrfsitem"
	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

// ItemVisitor is called once per leaf item encountered by WalkItems,
// already decoded into its typed form.
type ItemVisitor func(btrfsitem.Item)

// WalkItems walks root like WalkTree, decoding each leaf item via
// btrfsitem.DecodeItem before handing it to visit. A decode failure
// is passed through on Item.Err rather than filtered out here, so
// that callers interested in raw decode failures (as opposed to
// "this item type isn't interesting") can still see them; callers
// that only care about specific fields just check those fields are
// non-nil, same as checking Err == nil.
//
// checksumSize is only consulted for EXTENT_CSUM items; pass 0 when
// walking a tree that contains none.
func WalkItems(ctx context.Context, img *btrfsvol.Image, root btrfsvol.LogicalAddr, nodeSize uint32, checksumSize int, visit ItemVisitor) {
	WalkTree(ctx, img, root, nodeSize, func(raw RawItem) {
		item := btrfsitem.DecodeItem(raw.Key, checksumSize, raw.Data)
		if item.Err != nil && !errors.Is(item.Err, btrfsitem.ErrUnhandledItemType) {
			dlog.Warnf(ctx, "item %v: %v", raw.Key, item.Err)
		}
		visit(item)
	})
}
