package btrfsitem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfscat/btrfscat/lib/btrfsitem"
)

func TestDecodeExtentCSum(t *testing.T) {
	t.Parallel()
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	v, err := btrfsitem.DecodeExtentCSum(buf, 4)
	require.NoError(t, err)
	require.Len(t, v.Sums, 2)
	assert.Equal(t, []byte{1, 2, 3, 4}, v.Sums[0])
	assert.Equal(t, []byte{5, 6, 7, 8}, v.Sums[1])
}

func TestDecodeExtentCSumZeroWidth(t *testing.T) {
	t.Parallel()
	_, err := btrfsitem.DecodeExtentCSum([]byte{1, 2, 3, 4}, 0)
	assert.Error(t, err)
}

func TestDecodeInodeRefAndExtref(t *testing.T) {
	t.Parallel()
	name := []byte("file.txt")

	refBuf := make([]byte, 0xa+len(name))
	putU64(refBuf, 0x0, 7)
	putU16(refBuf, 0x8, uint16(len(name)))
	copy(refBuf[0xa:], name)
	ref, err := btrfsitem.DecodeInodeRef(refBuf)
	require.NoError(t, err)
	assert.EqualValues(t, 7, ref.Index)
	assert.Equal(t, "file.txt", string(ref.Name))

	extrefBuf := make([]byte, 0x12+len(name))
	putU64(extrefBuf, 0x0, 256)
	putU64(extrefBuf, 0x8, 9)
	putU16(extrefBuf, 0x10, uint16(len(name)))
	copy(extrefBuf[0x12:], name)
	extref, err := btrfsitem.DecodeInodeExtref(extrefBuf)
	require.NoError(t, err)
	assert.EqualValues(t, 256, extref.ParentObjID)
	assert.EqualValues(t, 9, extref.Index)
}
