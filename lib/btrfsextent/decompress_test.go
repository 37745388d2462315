package btrfsextent_test

import (
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfscat/btrfscat/lib/btrfsextent"
	"github.com/btrfscat/btrfscat/lib/btrfsitem"
)

func TestDecompressNoneIsPassthrough(t *testing.T) {
	t.Parallel()
	src := []byte("hello world")
	got, err := btrfsextent.Decompress(btrfsitem.COMPRESS_NONE, src, len(src))
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestDecompressZlibRoundTrip(t *testing.T) {
	t.Parallel()
	want := []byte("the quick brown fox jumps over the lazy dog, repeated a bit for compression to matter")

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, err := w.Write(want)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got, err := btrfsextent.Decompress(btrfsitem.COMPRESS_ZLIB, buf.Bytes(), len(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecompressZstdRoundTrip(t *testing.T) {
	t.Parallel()
	want := []byte("the quick brown fox jumps over the lazy dog, repeated a bit for compression to matter")

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll(want, nil)
	require.NoError(t, enc.Close())

	got, err := btrfsextent.Decompress(btrfsitem.COMPRESS_ZSTD, compressed, len(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecompressUnsupportedCodec(t *testing.T) {
	t.Parallel()
	_, err := btrfsextent.Decompress(btrfsitem.CompressionType(99), []byte("x"), 1)
	assert.ErrorIs(t, err, btrfsextent.ErrUnsupportedCompression)
}

func TestDecompressLZOEmptyStreamYieldsEmptyOutput(t *testing.T) {
	t.Parallel()
	// BTRFS LZO framing: 4-byte total length, zero segments.
	src := []byte{0, 0, 0, 0}
	got, err := btrfsextent.Decompress(btrfsitem.COMPRESS_LZO, src, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecompressLZOTruncatedHeaderErrors(t *testing.T) {
	t.Parallel()
	_, err := btrfsextent.Decompress(btrfsitem.COMPRESS_LZO, []byte{1, 2}, 10)
	assert.Error(t, err)
}
