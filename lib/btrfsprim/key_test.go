package btrfsprim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/btrfscat/btrfscat/lib/btrfsprim"
)

func TestKeyCompare(t *testing.T) {
	t.Parallel()
	type TestCase struct {
		A, B btrfsprim.Key
		Want int
	}
	testcases := map[string]TestCase{
		"equal": {
			A:    btrfsprim.Key{ObjectID: 5, ItemType: btrfsprim.INODE_ITEM, Offset: 0},
			B:    btrfsprim.Key{ObjectID: 5, ItemType: btrfsprim.INODE_ITEM, Offset: 0},
			Want: 0,
		},
		"objid-less": {
			A:    btrfsprim.Key{ObjectID: 4, ItemType: btrfsprim.INODE_ITEM, Offset: 0},
			B:    btrfsprim.Key{ObjectID: 5, ItemType: btrfsprim.INODE_ITEM, Offset: 0},
			Want: -1,
		},
		"type-greater": {
			A:    btrfsprim.Key{ObjectID: 5, ItemType: btrfsprim.DIR_ITEM, Offset: 0},
			B:    btrfsprim.Key{ObjectID: 5, ItemType: btrfsprim.INODE_ITEM, Offset: 0},
			Want: 1,
		},
		"offset-less": {
			A:    btrfsprim.Key{ObjectID: 5, ItemType: btrfsprim.INODE_ITEM, Offset: 1},
			B:    btrfsprim.Key{ObjectID: 5, ItemType: btrfsprim.INODE_ITEM, Offset: 2},
			Want: -1,
		},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.Want, tc.A.Compare(tc.B))
		})
	}
}

func TestDecodeKeyTruncated(t *testing.T) {
	t.Parallel()
	_, _, err := btrfsprim.DecodeKey([]byte{1, 2, 3}, 0)
	assert.Error(t, err)
}

func TestDecodeKeyFields(t *testing.T) {
	t.Parallel()
	buf := make([]byte, btrfsprim.KeySize)
	buf[0] = 5               // ObjectID low byte
	buf[8] = byte(btrfsprim.DIR_ITEM)
	buf[9] = 0x2a            // Offset low byte

	key, n, err := btrfsprim.DecodeKey(buf, 0)
	assert.NoError(t, err)
	assert.Equal(t, btrfsprim.KeySize, n)
	assert.Equal(t, btrfsprim.ObjID(5), key.ObjectID)
	assert.Equal(t, btrfsprim.DIR_ITEM, key.ItemType)
	assert.Equal(t, uint64(0x2a), key.Offset)
}
