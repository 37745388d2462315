package btrfsio_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/btrfscat/btrfscat/lib/btrfsio"
)

func TestDecodersTruncated(t *testing.T) {
	t.Parallel()
	buf := []byte{1, 2, 3}

	_, err := btrfsio.U32(buf, 0)
	assert.True(t, errors.Is(err, btrfsio.ErrTruncatedRecord))

	_, err = btrfsio.U64(buf, 0)
	assert.True(t, errors.Is(err, btrfsio.ErrTruncatedRecord))

	_, err = btrfsio.Bytes(buf, 2, 5)
	assert.True(t, errors.Is(err, btrfsio.ErrTruncatedRecord))
}

func TestDecodersLittleEndian(t *testing.T) {
	t.Parallel()
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	u16, err := btrfsio.U16(buf, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0201), u16)

	u32, err := btrfsio.U32(buf, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint32(0x04030201), u32)

	u64, err := btrfsio.U64(buf, 0)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x0807060504030201), u64)

	i64, err := btrfsio.I64(buf, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(0x0807060504030201), i64)
}

func TestNeedBytesNegativeOffset(t *testing.T) {
	t.Parallel()
	err := btrfsio.NeedBytes([]byte{1, 2, 3}, -1, 1)
	assert.True(t, errors.Is(err, btrfsio.ErrTruncatedRecord))
}
