// Package btrfsvol implements the logical-to-physical address
// translation layer: the ChunkMap (spec.md §4.2).
package btrfsvol

import "fmt"

// LogicalAddr is a virtual address used inside BTRFS trees; it
// requires a ChunkMap to become a file offset.
type LogicalAddr int64

// PhysicalAddr is a byte offset from the start of the partition.
type PhysicalAddr int64

// AddrDelta is a signed difference between two addresses, or a length.
type AddrDelta int64

func (a LogicalAddr) String() string  { return fmt.Sprintf("%#x", int64(a)) }
func (a PhysicalAddr) String() string { return fmt.Sprintf("%#x", int64(a)) }

func (a LogicalAddr) Add(d AddrDelta) LogicalAddr { return a + LogicalAddr(d) }
func (a LogicalAddr) Sub(b LogicalAddr) AddrDelta { return AddrDelta(a - b) }
