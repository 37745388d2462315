package btrfsitem_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/btrfscat/btrfscat/lib/btrfsitem"
	"github.com/btrfscat/btrfscat/lib/btrfsprim"
)

func TestDecodeItemDispatch(t *testing.T) {
	t.Parallel()

	inodeBuf := make([]byte, btrfsitem.InodeSize)
	putU64(inodeBuf, 0x00, 1)
	item := btrfsitem.DecodeItem(btrfsprim.Key{ObjectID: 256, ItemType: btrfsprim.INODE_ITEM}, 0, inodeBuf)
	assert.NoError(t, item.Err)
	assert.NotNil(t, item.Inode)

	dirBuf := buildDirEntry([]byte("x"), nil, btrfsitem.FT_REG_FILE)
	item = btrfsitem.DecodeItem(btrfsprim.Key{ObjectID: 256, ItemType: btrfsprim.DIR_ITEM}, 0, dirBuf)
	assert.NoError(t, item.Err)
	assert.Len(t, item.DirEntries, 1)
}

func TestDecodeItemUnhandledType(t *testing.T) {
	t.Parallel()
	item := btrfsitem.DecodeItem(btrfsprim.Key{ObjectID: 1, ItemType: btrfsprim.ItemType(250)}, 0, nil)
	assert.True(t, errors.Is(item.Err, btrfsitem.ErrUnhandledItemType))
	assert.Nil(t, item.Inode)
}

func TestDecodeItemRootBackref(t *testing.T) {
	t.Parallel()
	name := []byte("snap")
	buf := make([]byte, 0x12+len(name))
	putU16(buf, 0x10, uint16(len(name)))
	copy(buf[0x12:], name)
	item := btrfsitem.DecodeItem(btrfsprim.Key{ObjectID: 5, ItemType: btrfsprim.ROOT_BACKREF, Offset: 256}, 0, buf)
	assert.NoError(t, item.Err)
	assert.NotNil(t, item.RootRef)
	assert.Equal(t, "snap", string(item.RootRef.Name))
}
