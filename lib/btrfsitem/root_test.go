package btrfsitem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfscat/btrfscat/lib/btrfsitem"
)

func TestDecodeRoot(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 0x1b7)
	putU64(buf, 0x00, 12) // embedded Inode.Generation
	putU64(buf, 0xb0, 0x9000000)
	putU64(buf, 0xd0, uint64(btrfsitem.ROOT_SUBVOL_RDONLY))
	putU32(buf, 0xd8, 1)

	root, err := btrfsitem.DecodeRoot(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 12, root.Inode.Generation)
	assert.EqualValues(t, 0x9000000, root.ByteNr)
	assert.True(t, root.Flags.Has(btrfsitem.ROOT_SUBVOL_RDONLY))
	assert.EqualValues(t, 1, root.Refs)
}

func TestDecodeRootTruncated(t *testing.T) {
	t.Parallel()
	_, err := btrfsitem.DecodeRoot(make([]byte, 10))
	assert.Error(t, err)
}

func TestDecodeRootRef(t *testing.T) {
	t.Parallel()
	name := []byte("snapshot1")
	buf := make([]byte, 0x12+len(name))
	putU64(buf, 0x00, 256)
	putU64(buf, 0x08, 3)
	putU16(buf, 0x10, uint16(len(name)))
	copy(buf[0x12:], name)

	ref, err := btrfsitem.DecodeRootRef(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 256, ref.DirID)
	assert.EqualValues(t, 3, ref.Sequence)
	assert.Equal(t, "snapshot1", string(ref.Name))
}

func TestDecodeRootRefNameTooLong(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 0x12)
	putU16(buf, 0x10, btrfsitem.MaxNameLen+1)
	_, err := btrfsitem.DecodeRootRef(buf)
	assert.Error(t, err)
}
