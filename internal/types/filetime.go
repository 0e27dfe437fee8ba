package types

import "time"

// FileTime is a Windows FILETIME value: the number of 100-nanosecond
// intervals since 1601-01-01 00:00:00 UTC, stored little-endian on disk.
type FileTime uint64

// filetimeEpochOffset is the number of 100ns intervals between the
// FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochOffset = 116444736000000000

// Time converts the FILETIME value to a time.Time in UTC.
func (f FileTime) Time() time.Time {
	if int64(f) < filetimeEpochOffset {
		return time.Unix(0, 0).UTC()
	}
	hundredNanos := int64(f) - filetimeEpochOffset
	return time.Unix(0, hundredNanos*100).UTC()
}
