package btrfsitem

import "fmt"

// CSumBlockSize is the size of the data sector that one EXTENT_CSUM
// checksum covers. The width of each checksum is separate: it depends
// on the filesystem's checksum algorithm (4 bytes for the default
// CRC32C) and is passed to DecodeExtentCSum by the caller.
const CSumBlockSize = 4 * 1024

// ExtentCSum is the decoded payload of an EXTENT_CSUM item (item type
// 128): one checksum per CSumBlockSize-byte sector of the
// checksummed logical range starting at key.Offset.
type ExtentCSum struct {
	ChecksumSize int
	Sums         [][]byte
}

// DecodeExtentCSum decodes an EXTENT_CSUM payload given the
// filesystem's checksum width in bytes.
func DecodeExtentCSum(buf []byte, checksumSize int) (ExtentCSum, error) {
	if checksumSize <= 0 {
		return ExtentCSum{}, fmt.Errorf("extent csum: checksum size must be set")
	}
	v := ExtentCSum{ChecksumSize: checksumSize}
	for len(buf) >= checksumSize {
		v.Sums = append(v.Sums, append([]byte(nil), buf[:checksumSize]...))
		buf = buf[checksumSize:]
	}
	return v, nil
}
