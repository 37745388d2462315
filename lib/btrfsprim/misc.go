package btrfsprim

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/btrfscat/btrfscat/lib/btrfsio"
	"github.com/btrfscat/btrfscat/lib/fmtutil"
)

// Generation is a BTRFS transaction ID.
type Generation uint64

// TimeSize is the on-disk size of a Time.
const TimeSize = 0xc

// Time is a BTRFS on-disk timestamp: seconds since the epoch plus a
// nanosecond remainder.
type Time struct {
	Sec  int64  // off=0x0, siz=0x8
	NSec uint32 // off=0x8, siz=0x4
}

// ToStd converts t to a standard library time.Time in UTC.
func (t Time) ToStd() time.Time {
	return time.Unix(t.Sec, int64(t.NSec)).UTC()
}

// ISO8601 formats t the way spec.md §6 requires: "YYYY-MM-DDTHH:MM:SS",
// with no timezone suffix.
func (t Time) ISO8601() string {
	return t.ToStd().Format("2006-01-02T15:04:05")
}

// DecodeTime decodes a Time at buf[off:off+0xc].
func DecodeTime(buf []byte, off int) (Time, int, error) {
	if err := btrfsio.NeedBytes(buf, off, TimeSize); err != nil {
		return Time{}, 0, err
	}
	sec, _ := btrfsio.I64(buf, off+0x0)
	nsec, _ := btrfsio.U32(buf, off+0x8)
	return Time{Sec: sec, NSec: nsec}, TimeSize, nil
}

// UUIDSize is the on-disk size of a UUID.
const UUIDSize = 16

// UUID is a 16-byte BTRFS/RFC-4122 UUID.
type UUID [16]byte

// String formats u in canonical 8-4-4-4-12 lowercase hex (spec.md §6).
func (u UUID) String() string {
	str := hex.EncodeToString(u[:])
	return strings.Join([]string{str[:8], str[8:12], str[12:16], str[16:20], str[20:32]}, "-")
}

// Format implements fmt.Formatter so that "%#v" on a UUID shows its
// Go-syntax byte array while "%v"/"%s" use String.
func (u UUID) Format(f fmt.State, verb rune) {
	fmtutil.FormatByteArrayStringer(u, u[:], f, verb)
}

// DecodeUUID decodes a UUID at buf[off:off+16].
func DecodeUUID(buf []byte, off int) (UUID, int, error) {
	bs, err := btrfsio.Bytes(buf, off, UUIDSize)
	if err != nil {
		return UUID{}, 0, err
	}
	var u UUID
	copy(u[:], bs)
	return u, UUIDSize, nil
}
