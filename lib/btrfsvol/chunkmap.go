package btrfsvol

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnmappedLogicalAddress is returned (wrapped) when a logical
// address falls outside every interval known to the ChunkMap.
var ErrUnmappedLogicalAddress = errors.New("unmapped logical address")

type mapping struct {
	LogicalStart LogicalAddr
	Length       AddrDelta
	Physical     PhysicalAddr
}

// ChunkMap accumulates (logical_start, length, physical_offset)
// triples discovered while bootstrapping from the superblock's
// sys_chunk_array and then walking the chunk tree, and translates
// logical tree/extent addresses into absolute file offsets within the
// disk image.
//
// Non-empty mappings never overlap; a lookup returns the unique
// interval containing the query address (spec.md §4.2).
type ChunkMap struct {
	partitionOffset int64
	entries         []mapping // kept sorted by LogicalStart
}

// NewChunkMap constructs an empty ChunkMap. partitionOffset is added
// to every translated address, accounting for the partition's
// position within the disk image.
func NewChunkMap(partitionOffset int64) *ChunkMap {
	return &ChunkMap{partitionOffset: partitionOffset}
}

// Add records that the logical range [logicalStart, logicalStart+length)
// is backed by physical bytes starting at physicalOffset. A later call
// with the same logicalStart silently replaces the earlier one — this
// is how a full chunk-tree walk overrides the bootstrap mappings taken
// from the superblock's sys_chunk_array (spec.md §4.2, §4.5).
func (m *ChunkMap) Add(logicalStart LogicalAddr, length AddrDelta, physicalOffset PhysicalAddr) {
	entry := mapping{LogicalStart: logicalStart, Length: length, Physical: physicalOffset}
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].LogicalStart >= logicalStart
	})
	if i < len(m.entries) && m.entries[i].LogicalStart == logicalStart {
		m.entries[i] = entry
		return
	}
	m.entries = append(m.entries, mapping{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = entry
}

// Len returns the number of distinct logical-start mappings recorded.
func (m *ChunkMap) Len() int {
	return len(m.entries)
}

// Translate maps a logical address to an absolute byte offset within
// the disk image: partition_offset + physical_offset + (logical -
// logical_start) of the unique interval containing logical. It fails
// with ErrUnmappedLogicalAddress if no interval contains logical.
func (m *ChunkMap) Translate(logical LogicalAddr) (int64, error) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].LogicalStart > logical
	}) - 1
	if i < 0 {
		return 0, fmt.Errorf("%w: %v", ErrUnmappedLogicalAddress, logical)
	}
	e := m.entries[i]
	if logical >= e.LogicalStart.Add(e.Length) {
		return 0, fmt.Errorf("%w: %v", ErrUnmappedLogicalAddress, logical)
	}
	delta := logical.Sub(e.LogicalStart)
	return m.partitionOffset + int64(e.Physical) + int64(delta), nil
}

// MaxRun returns how many contiguous bytes starting at logical are
// covered by a single chunk, which bounds how much a single read can
// satisfy without re-translating.
func (m *ChunkMap) MaxRun(logical LogicalAddr) (AddrDelta, bool) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].LogicalStart > logical
	}) - 1
	if i < 0 {
		return 0, false
	}
	e := m.entries[i]
	if logical >= e.LogicalStart.Add(e.Length) {
		return 0, false
	}
	return e.Length - logical.Sub(e.LogicalStart), true
}
