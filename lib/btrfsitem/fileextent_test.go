package btrfsitem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfscat/btrfscat/lib/btrfsitem"
)

func TestDecodeFileExtentInline(t *testing.T) {
	t.Parallel()
	body := []byte("hello world")
	buf := make([]byte, 0x15+len(body))
	putU64(buf, 0x8, uint64(len(body))) // RAMBytes
	buf[0x14] = byte(btrfsitem.FILE_EXTENT_INLINE)
	copy(buf[0x15:], body)

	fe, err := btrfsitem.DecodeFileExtent(buf)
	require.NoError(t, err)
	assert.Equal(t, btrfsitem.FILE_EXTENT_INLINE, fe.Type)
	assert.Equal(t, body, fe.BodyInline)
	size, err := fe.Size()
	require.NoError(t, err)
	assert.EqualValues(t, len(body), size)
}

func TestDecodeFileExtentRegular(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 0x15+0x20)
	buf[0x14] = byte(btrfsitem.FILE_EXTENT_REG)
	putU64(buf, 0x15+0x0, 0x4000)  // DiskByteNr
	putU64(buf, 0x15+0x8, 0x2000)  // DiskNumBytes
	putU64(buf, 0x15+0x10, 0)      // Offset
	putU64(buf, 0x15+0x18, 0x2000) // NumBytes

	fe, err := btrfsitem.DecodeFileExtent(buf)
	require.NoError(t, err)
	assert.Equal(t, btrfsitem.FILE_EXTENT_REG, fe.Type)
	assert.EqualValues(t, 0x4000, fe.BodyExtent.DiskByteNr)
	assert.EqualValues(t, 0x2000, fe.BodyExtent.NumBytes)
}

func TestDecodeFileExtentUnknownType(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 0x15)
	buf[0x14] = 99
	_, err := btrfsitem.DecodeFileExtent(buf)
	assert.Error(t, err)
}

func TestCompressionTypeString(t *testing.T) {
	t.Parallel()
	assert.Contains(t, btrfsitem.COMPRESS_ZSTD.String(), "zstd")
}
