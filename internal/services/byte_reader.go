// Package services implements the two outermost components of the read
// path: the byte reader and the Volume/Store read engine built on top of
// internal/catalog, internal/metadata, internal/blocktree, and
// internal/resolver.
package services

import (
	"container/list"
	"fmt"
	"io"
	"sync"

	"github.com/deploymenttheory/go-vss/internal/interfaces"
	"github.com/deploymenttheory/go-vss/internal/types"
)

// DefaultMaxCachedBlocks bounds the byte reader's block cache, scaled down
// from typical filesystem node-cache sizes because VSS blocks are 16 KiB.
const DefaultMaxCachedBlocks = 2048

// ByteReader wraps an io.ReaderAt plus a caller-supplied volume offset,
// adding the offset to every read so VSS metadata living inside a
// partitioned image can be addressed by its NTFS-partition-relative
// offset. It owns a mutex-guarded LRU cache of whole 16 KiB blocks so that
// repeated resolution of the same hot metadata block costs one
// underlying ReadAt.
type ByteReader struct {
	reader       io.ReaderAt
	volumeOffset int64
	size         uint64

	mu        sync.Mutex
	cache     map[uint64]*list.Element
	order     *list.List
	maxBlocks int

	hits   uint64
	misses uint64
}

type cachedBlock struct {
	blockOffset uint64
	data        []byte
}

// NewByteReader wraps reader, adding volumeOffset to every absolute
// offset passed to ReadAt. size is the total addressable size of the VSS
// region (used for bounds reporting via Size()).
func NewByteReader(reader io.ReaderAt, volumeOffset int64, size uint64) *ByteReader {
	return &ByteReader{
		reader:       reader,
		volumeOffset: volumeOffset,
		size:         size,
		cache:        make(map[uint64]*list.Element),
		order:        list.New(),
		maxBlocks:    DefaultMaxCachedBlocks,
	}
}

// Size returns the total size, in bytes, of the backing VSS region.
func (r *ByteReader) Size() uint64 {
	return r.size
}

// ReadAt reads len(buf) bytes starting at the absolute offset offset
// (relative to the VSS region, not the underlying file), returning the
// number of bytes copied into buf.
func (r *ByteReader) ReadAt(offset uint64, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		blockOffset := (offset + uint64(total)) - (offset+uint64(total))%types.BlockSize
		block, err := r.readBlock(blockOffset)
		if err != nil {
			return total, err
		}

		withinBlock := int((offset + uint64(total)) - blockOffset)
		n := copy(buf[total:], block[withinBlock:])
		if n == 0 {
			break
		}
		total += n
	}
	return total, nil
}

// readBlock returns the cached or freshly read 16 KiB block starting at
// blockOffset.
func (r *ByteReader) readBlock(blockOffset uint64) ([]byte, error) {
	r.mu.Lock()
	if elem, ok := r.cache[blockOffset]; ok {
		r.order.MoveToFront(elem)
		r.hits++
		data := elem.Value.(*cachedBlock).data
		r.mu.Unlock()
		return data, nil
	}
	r.misses++
	r.mu.Unlock()

	buf := make([]byte, types.BlockSize)
	n, err := r.reader.ReadAt(buf, r.volumeOffset+int64(blockOffset))
	if err != nil && err != io.EOF {
		return nil, types.NewError(types.IoError, "services.ByteReader.readBlock", err)
	}
	if n < types.BlockSize {
		return nil, types.NewError(types.IoError, "services.ByteReader.readBlock",
			fmt.Errorf("short read at 0x%x: got %d bytes, want %d", blockOffset, n, types.BlockSize))
	}

	r.mu.Lock()
	r.insertCacheLocked(blockOffset, buf)
	r.mu.Unlock()

	return buf, nil
}

func (r *ByteReader) insertCacheLocked(blockOffset uint64, data []byte) {
	if elem, ok := r.cache[blockOffset]; ok {
		r.order.MoveToFront(elem)
		elem.Value.(*cachedBlock).data = data
		return
	}

	elem := r.order.PushFront(&cachedBlock{blockOffset: blockOffset, data: data})
	r.cache[blockOffset] = elem

	for r.order.Len() > r.maxBlocks {
		oldest := r.order.Back()
		if oldest == nil {
			break
		}
		r.order.Remove(oldest)
		delete(r.cache, oldest.Value.(*cachedBlock).blockOffset)
	}
}

// Statistics reports cache hit/miss counters, implementing
// interfaces.StatisticsReporter.
func (r *ByteReader) Statistics() interfaces.CacheStatistics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return interfaces.CacheStatistics{
		Hits:         r.hits,
		Misses:       r.misses,
		BlocksCached: r.order.Len(),
		MaxBlocks:    r.maxBlocks,
	}
}

var _ interfaces.ByteReader = (*ByteReader)(nil)
var _ interfaces.StatisticsReporter = (*ByteReader)(nil)
