package btrfsvol_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btrfscat/btrfscat/lib/btrfsvol"
)

func TestChunkMapTranslate(t *testing.T) {
	t.Parallel()
	m := btrfsvol.NewChunkMap(0x1000)
	m.Add(0x4000, 0x1000, 0x20000)
	m.Add(0x8000, 0x1000, 0x30000)

	off, err := m.Translate(0x4500)
	require.NoError(t, err)
	assert.EqualValues(t, 0x1000+0x20000+0x500, off)

	off, err = m.Translate(0x8fff)
	require.NoError(t, err)
	assert.EqualValues(t, 0x1000+0x30000+0xfff, off)
}

func TestChunkMapTranslateUnmapped(t *testing.T) {
	t.Parallel()
	m := btrfsvol.NewChunkMap(0)
	m.Add(0x4000, 0x1000, 0x20000)
	_, err := m.Translate(0x9000)
	assert.True(t, errors.Is(err, btrfsvol.ErrUnmappedLogicalAddress))
	_, err = m.Translate(0x3000)
	assert.True(t, errors.Is(err, btrfsvol.ErrUnmappedLogicalAddress))
}

func TestChunkMapAddReplaces(t *testing.T) {
	t.Parallel()
	m := btrfsvol.NewChunkMap(0)
	m.Add(0x4000, 0x1000, 0x20000)
	m.Add(0x4000, 0x1000, 0x99999)
	assert.Equal(t, 1, m.Len())
	off, err := m.Translate(0x4000)
	require.NoError(t, err)
	assert.EqualValues(t, 0x99999, off)
}

func TestChunkMapMaxRun(t *testing.T) {
	t.Parallel()
	m := btrfsvol.NewChunkMap(0)
	m.Add(0x4000, 0x1000, 0x20000)
	run, ok := m.MaxRun(0x4500)
	require.True(t, ok)
	assert.EqualValues(t, 0xb00, run)
	_, ok = m.MaxRun(0x9000)
	assert.False(t, ok)
}
