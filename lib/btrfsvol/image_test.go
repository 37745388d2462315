package btrfsvol_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

func TestImageReadLogical(t *testing.T) {
	t.Parallel()
	backing := make([]byte, 0x10000)
	copy(backing[0x5000:], []byte("needle"))

	chunks := btrfsvol.NewChunkMap(0)
	chunks.Add(0x4000, 0x2000, 0x4000)
	img := &btrfsvol.Image{ReaderAt: bytes.NewReader(backing), Chunks: chunks}

	buf := make([]byte, 6)
	err := img.ReadLogical(0x5000, buf)
	require.NoError(t, err)
	assert.Equal(t, "needle", string(buf))
}

func TestImageReadLogicalUnmapped(t *testing.T) {
	t.Parallel()
	chunks := btrfsvol.NewChunkMap(0)
	img := &btrfsvol.Image{ReaderAt: bytes.NewReader(nil), Chunks: chunks}
	err := img.ReadLogical(0x5000, make([]byte, 4))
	assert.Error(t, err)
}
