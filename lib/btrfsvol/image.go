package btrfsvol

import "io"

// Image is the disk image opened for positioned reads, paired with
// the ChunkMap used to resolve logical addresses within it. The image
// is opened once and all reads are absolute positioned reads
// (spec.md §5 "Shared resources").
type Image struct {
	ReaderAt io.ReaderAt
	Chunks   *ChunkMap
}

// ReadLogical reads len(buf) bytes starting at the given logical
// address, translating through the ChunkMap.
func (img *Image) ReadLogical(addr LogicalAddr, buf []byte) error {
	off, err := img.Chunks.Translate(addr)
	if err != nil {
		return err
	}
	_, err = io.ReadFull(io.NewSectionReader(img.ReaderAt, off, int64(len(buf))), buf)
	return err
}

// ReadPhysical reads len(buf) bytes starting at an already-translated
// absolute file offset. Extent data is read through ReadLogical, since
// an extent's disk_bytenr is itself a logical address.
func (img *Image) ReadPhysical(off int64, buf []byte) error {
	_, err := io.ReadFull(io.NewSectionReader(img.ReaderAt, off, int64(len(buf))), buf)
	return err
}
