package btrfstree_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfscat/btrfscat/lib/btrfstree"
)

func buildSuperblock(t *testing.T) []byte {
	t.Helper()
	buf := make([]byte, btrfstree.SuperblockSize)
	copy(buf[0x40:], []byte("_BHRfS_M"))
	putU64(buf, 0x50, 0x2000)  // Root
	putU64(buf, 0x58, 0x3000)  // ChunkRoot
	putU32(buf, 0x94, 16384)   // NodeSize
	copy(buf[0x12b:], []byte("mylabel"))
	return buf
}

func TestDecodeSuperblock(t *testing.T) {
	t.Parallel()
	buf := buildSuperblock(t)
	sb, err := btrfstree.DecodeSuperblock(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 0x2000, sb.Root)
	assert.EqualValues(t, 0x3000, sb.ChunkRoot)
	assert.EqualValues(t, 16384, sb.NodeSize)
	assert.Equal(t, "mylabel", sb.Label)
}

func TestDecodeSuperblockBadMagic(t *testing.T) {
	t.Parallel()
	buf := make([]byte, btrfstree.SuperblockSize)
	_, err := btrfstree.DecodeSuperblock(buf)
	assert.True(t, errors.Is(err, btrfstree.ErrNotBtrfs))
}

func TestReadSuperblock(t *testing.T) {
	t.Parallel()
	buf := buildSuperblock(t)
	image := make([]byte, btrfstree.SuperblockOffset+len(buf))
	copy(image[btrfstree.SuperblockOffset:], buf)

	sb, err := btrfstree.ReadSuperblock(bytes.NewReader(image), 0)
	require.NoError(t, err)
	assert.Equal(t, "mylabel", sb.Label)
}
