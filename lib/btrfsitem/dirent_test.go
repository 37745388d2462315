package btrfsitem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfscat/btrfscat/lib/btrfsitem"
)

func buildDirEntry(name, data []byte, typ btrfsitem.FileType) []byte {
	buf := make([]byte, 0x1e+len(name)+len(data))
	// Location key left zero.
	putU16(buf, 0x19, uint16(len(data)))
	putU16(buf, 0x1b, uint16(len(name)))
	buf[0x1d] = byte(typ)
	copy(buf[0x1e:], name)
	copy(buf[0x1e+len(name):], data)
	return buf
}

func TestDecodeDirEntry(t *testing.T) {
	t.Parallel()
	buf := buildDirEntry([]byte("hello.txt"), nil, btrfsitem.FT_REG_FILE)
	e, n, err := btrfsitem.DecodeDirEntry(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, "hello.txt", string(e.Name))
	assert.Equal(t, btrfsitem.FT_REG_FILE, e.Type)
}

func TestDecodeDirEntries(t *testing.T) {
	t.Parallel()
	a := buildDirEntry([]byte("a"), nil, btrfsitem.FT_REG_FILE)
	b := buildDirEntry([]byte("b"), nil, btrfsitem.FT_DIR)
	entries, err := btrfsitem.DecodeDirEntries(append(a, b...))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", string(entries[0].Name))
	assert.Equal(t, "b", string(entries[1].Name))
}

func TestDecodeDirEntryNameTooLong(t *testing.T) {
	t.Parallel()
	buf := make([]byte, 0x1e)
	putU16(buf, 0x1b, btrfsitem.MaxNameLen+1)
	_, _, err := btrfsitem.DecodeDirEntry(buf, 0)
	assert.Error(t, err)
}

func TestFileTypeString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "DIR", btrfsitem.FT_DIR.String())
	assert.Equal(t, "FILE_TYPE.200", btrfsitem.FileType(200).String())
}
