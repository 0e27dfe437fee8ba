// File: internal/interfaces/byte_reader.go
package interfaces

// ByteReader is the positioned-read abstraction every higher layer is built
// on. All offsets passed to ReadAt are absolute image offsets — the
// volume_offset supplied at Volume open time has already been added by the
// implementation.
type ByteReader interface {
	// ReadAt reads len(buf) bytes starting at offset into buf, returning
	// the number of bytes read. A short read is only non-error at true
	// end of image; a short read where a full record was expected is the
	// caller's responsibility to turn into an IoError.
	ReadAt(offset uint64, buf []byte) (int, error)

	// Size returns the total size, in bytes, of the backing image.
	Size() uint64
}

// CacheStatistics reports ByteReader block-cache performance, surfaced to
// collaborators for diagnostics.
type CacheStatistics struct {
	Hits        uint64
	Misses      uint64
	BlocksCached int
	MaxBlocks   int
}

// StatisticsReporter is implemented by ByteReader implementations that
// track cache performance.
type StatisticsReporter interface {
	Statistics() CacheStatistics
}
