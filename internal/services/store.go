package services

import (
	"fmt"
	"io"
	"sync"

	"github.com/deploymenttheory/go-vss/internal/blocktree"
	"github.com/deploymenttheory/go-vss/internal/interfaces"
	"github.com/deploymenttheory/go-vss/internal/metadata"
	"github.com/deploymenttheory/go-vss/internal/types"
)

// Store is one shadow-snapshot handle. Its block tree is materialized
// lazily on first access and cached for the Volume's lifetime (spec.md
// §3.3, §5): the first goroutine to touch it performs the walk and
// publishes the result; others block on the same sync.Once.
type Store struct {
	volume     *Volume
	index      int
	info       types.StoreInformationT
	descriptor types.StoreDescriptorT

	once           sync.Once
	meta           *metadata.StoreMetadata
	tree           *blocktree.Tree
	materializeErr error

	cursorMu sync.Mutex
	cursor   int64
}

func (s *Store) materialize() error {
	s.once.Do(func() {
		meta, err := metadata.Load(s.volume.br, s.descriptor, s.volume.entries, s.volume.Size(), s.volume.observer, s.volume.abortFunc())
		if err != nil {
			s.materializeErr = err
			return
		}
		s.meta = meta
		s.tree = blocktree.Build(meta.BlockList, s.volume.storeRefs())
	})
	return s.materializeErr
}

// SequenceNumber implements interfaces.StoreView.
func (s *Store) SequenceNumber() uint32 {
	return s.info.SequenceNumber
}

// BitmapBit implements interfaces.StoreView. Returns false (not
// addressable) if the store failed to materialize, so an unavailable
// store degrades to "no blocks" rather than panicking.
func (s *Store) BitmapBit(blockIndex uint64) bool {
	if s.materialize() != nil {
		return false
	}
	return s.meta.Bitmap.Bit(blockIndex)
}

// Lookup implements interfaces.StoreView.
func (s *Store) Lookup(originalOffset uint64) (types.ResolvedSource, []types.Overlay, bool) {
	if s.materialize() != nil {
		return types.ResolvedSource{}, nil, false
	}
	return s.tree.Lookup(originalOffset)
}

// Identifier returns the store's GUID.
func (s *Store) Identifier() types.GUID {
	return s.info.StoreID
}

// CreationTime returns the FILETIME at which the snapshot was taken.
func (s *Store) CreationTime() types.FileTime {
	return s.info.CreationTime
}

// Index returns this store's 0-based sequence-ordered index.
func (s *Store) Index() int {
	return s.index
}

// Size returns the store's addressable size. VSS stores a single bitmap
// sized against the live volume at snapshot scan time and no per-store
// size field of its own; this implementation uses the Volume's size for
// every store (see DESIGN.md).
func (s *Store) Size() uint64 {
	return s.volume.Size()
}

// Seek repositions the store's logical read cursor using POSIX whence
// semantics.
func (s *Store) Seek(offset int64, whence int) (int64, error) {
	s.cursorMu.Lock()
	defer s.cursorMu.Unlock()

	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = s.cursor + offset
	case io.SeekEnd:
		newOffset = int64(s.Size()) + offset
	default:
		return 0, types.NewError(types.ArgumentError, "Store.Seek", fmt.Errorf("unsupported whence %d", whence))
	}

	if newOffset < 0 {
		return 0, types.NewError(types.ArgumentError, "Store.Seek", fmt.Errorf("negative resulting offset %d", newOffset))
	}

	s.cursor = newOffset
	return s.cursor, nil
}

// Read reads from and advances the store's logical cursor.
func (s *Store) Read(p []byte) (int, error) {
	s.cursorMu.Lock()
	offset := s.cursor
	s.cursorMu.Unlock()

	n, err := s.ReadAt(p, offset)
	if err != nil {
		return n, err
	}

	s.cursorMu.Lock()
	s.cursor = offset + int64(n)
	s.cursorMu.Unlock()

	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ReadAt services a read at an explicit offset, independent of the
// cursor.
func (s *Store) ReadAt(p []byte, offset int64) (int, error) {
	if offset < 0 {
		return 0, types.NewError(types.ArgumentError, "Store.ReadAt", fmt.Errorf("negative offset %d", offset))
	}
	size := int64(s.Size())
	if offset > size {
		return 0, types.NewError(types.ArgumentError, "Store.ReadAt", fmt.Errorf("offset %d beyond size %d", offset, size))
	}
	if offset == size {
		return 0, nil
	}

	length := len(p)
	if int64(length) > size-offset {
		length = int(size - offset)
	}
	if length == 0 {
		return 0, nil
	}

	if err := s.materialize(); err != nil {
		return 0, err
	}

	return s.readResolved(p[:length], uint64(offset))
}

// subBlockSegment is one resolved 1,024-byte sub-block in absolute
// sub-block order, used to build coalesced reads.
type subBlockSegment struct {
	start  uint64 // absolute original-volume byte offset
	kind   types.SourceKind
	source uint64 // meaningful when kind is InPlace or Copied
}

func (s *Store) readResolved(dst []byte, start uint64) (int, error) {
	end := start + uint64(len(dst))

	firstSub := (start / types.SubBlockSize) * types.SubBlockSize
	lastSubExclusive := ((end + types.SubBlockSize - 1) / types.SubBlockSize) * types.SubBlockSize

	var segments []subBlockSegment
	for abs := firstSub; abs < lastSubExclusive; abs += types.SubBlockSize {
		blockOffset := (abs / types.BlockSize) * types.BlockSize
		subIndex := int((abs - blockOffset) / types.SubBlockSize)

		if s.volume.abort.Load() {
			return 0, types.NewError(types.RuntimeError, "Store.readResolved", fmt.Errorf("abort requested"))
		}

		plan, err := s.volume.resolver.Resolve(s.index, blockOffset)
		if err != nil {
			return 0, err
		}

		resolved := plan[subIndex]
		segments = append(segments, subBlockSegment{start: abs, kind: resolved.Kind, source: resolved.ImageOffset})
	}

	copied := 0
	i := 0
	for i < len(segments) {
		j := i + 1
		for j < len(segments) && coalesces(segments[i], segments[j], j-i) {
			j++
		}

		runStart := segments[i].start
		runEnd := segments[j-1].start + types.SubBlockSize
		n, err := s.copyRun(dst, start, end, segments[i], runStart, runEnd)
		if err != nil {
			return copied, err
		}
		copied += n

		i = j
	}

	return len(dst), nil
}

// coalesces reports whether first and next, a segment distance positions
// later in a run, share the same kind and, for image-backed kinds, a
// contiguous source offset — letting readResolved issue one ByteReader
// call for a run of adjacent identically-sourced sub-blocks (spec.md
// §4.7 step 3).
func coalesces(first, next subBlockSegment, distance int) bool {
	if first.kind != next.kind {
		return false
	}
	switch first.kind {
	case types.SourceZero:
		return true
	case types.SourceInPlace, types.SourceCopied:
		return next.source == first.source+uint64(distance)*types.SubBlockSize
	default:
		return false
	}
}

// copyRun materializes one coalesced run of sub-blocks into dst,
// clipped to [reqStart, reqEnd).
func (s *Store) copyRun(dst []byte, reqStart, reqEnd uint64, first subBlockSegment, runStart, runEnd uint64) (int, error) {
	clipStart := runStart
	if clipStart < reqStart {
		clipStart = reqStart
	}
	clipEnd := runEnd
	if clipEnd > reqEnd {
		clipEnd = reqEnd
	}
	if clipEnd <= clipStart {
		return 0, nil
	}

	dstOffset := clipStart - reqStart
	length := clipEnd - clipStart

	switch first.kind {
	case types.SourceZero:
		for i := uint64(0); i < length; i++ {
			dst[dstOffset+i] = 0
		}
		return int(length), nil
	case types.SourceInPlace, types.SourceCopied:
		imageOffset := first.source + (clipStart - runStart)
		n, err := s.volume.br.ReadAt(imageOffset, dst[dstOffset:dstOffset+length])
		if err != nil {
			return n, types.NewError(types.IoError, "Store.readResolved", err)
		}
		return n, nil
	default:
		return 0, types.NewError(types.RuntimeError, "Store.readResolved",
			fmt.Errorf("unresolved source kind %d", first.kind))
	}
}

var _ interfaces.StoreView = (*Store)(nil)
