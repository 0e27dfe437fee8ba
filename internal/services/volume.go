package services

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/deploymenttheory/go-vss/internal/blocktree"
	"github.com/deploymenttheory/go-vss/internal/catalog"
	"github.com/deploymenttheory/go-vss/internal/interfaces"
	"github.com/deploymenttheory/go-vss/internal/parsers"
	"github.com/deploymenttheory/go-vss/internal/resolver"
	"github.com/deploymenttheory/go-vss/internal/types"
)

// Volume is an opened VSS region: an immutable catalog of stores built
// once at open time.
type Volume struct {
	br       *ByteReader
	header   types.VolumeHeaderT
	entries  []catalog.Entry
	stores   []*Store
	observer interfaces.Observer
	resolver *resolver.Resolver
	abort    atomic.Bool
	closer   io.Closer
}

// Open validates the volume header, scans the catalog, and builds the
// store list. volumeSize is the live NTFS volume's size, supplied by the
// caller (parsing it from the NTFS boot sector is out of scope here) and
// used to size every store's bitmap.
func Open(reader io.ReaderAt, volumeOffset int64, volumeSize uint64, obs interfaces.Observer) (*Volume, error) {
	if reader == nil {
		return nil, types.NewError(types.ArgumentError, "services.Open", fmt.Errorf("reader is nil"))
	}

	br := NewByteReader(reader, volumeOffset, volumeSize)

	headerBuf := make([]byte, types.BlockSize)
	n, err := br.ReadAt(types.VolumeHeaderOffset, headerBuf)
	if err != nil {
		return nil, types.NewError(types.IoError, "services.Open", err)
	}
	if n < types.BlockSize {
		return nil, types.NewError(types.IoError, "services.Open",
			fmt.Errorf("short read of volume header: got %d bytes", n))
	}

	header, err := parsers.DecodeVolumeHeader(headerBuf, types.VolumeHeaderOffset)
	if err != nil {
		return nil, err
	}

	v := &Volume{br: br, header: *header, observer: obs}

	entries, err := catalog.Scan(br, *header, obs, v.abortFunc())
	if err != nil {
		return nil, err
	}
	v.entries = entries

	v.stores = make([]*Store, len(entries))
	for i, e := range entries {
		v.stores[i] = &Store{volume: v, index: i, info: e.Info, descriptor: e.Descriptor}
	}

	v.resolver = resolver.New(&storeSetAdapter{volume: v})

	if closer, ok := reader.(io.Closer); ok {
		v.closer = closer
	}

	return v, nil
}

// CheckSignature reads the volume-header offset and reports whether the
// VSS signature is present, without retaining any state.
func CheckSignature(reader io.ReaderAt, volumeOffset int64) (bool, error) {
	if reader == nil {
		return false, types.NewError(types.ArgumentError, "services.CheckSignature", fmt.Errorf("reader is nil"))
	}

	buf := make([]byte, 16)
	n, err := reader.ReadAt(buf, volumeOffset+types.VolumeHeaderOffset)
	if err != nil && err != io.EOF {
		return false, types.NewError(types.IoError, "services.CheckSignature", err)
	}
	if n < 16 {
		return false, nil
	}

	var sig [16]byte
	copy(sig[:], buf)
	return sig == types.Signature, nil
}

// SignalAbort requests cooperative cancellation of any in-progress or
// future chain walks, tree materializations, and store reads.
func (v *Volume) SignalAbort() {
	v.abort.Store(true)
}

func (v *Volume) abortFunc() func() bool {
	return func() bool { return v.abort.Load() }
}

// Close releases the Volume's byte source, if it implements io.Closer.
func (v *Volume) Close() error {
	if v.closer != nil {
		return v.closer.Close()
	}
	return nil
}

// StoreCount returns the number of stores on this volume.
func (v *Volume) StoreCount() int {
	return len(v.stores)
}

// Store returns the store at the given 0-based sequence-ordered index.
func (v *Volume) Store(index int) (*Store, error) {
	if index < 0 || index >= len(v.stores) {
		return nil, types.NewError(types.ArgumentError, "Volume.Store",
			fmt.Errorf("store index %d out of range [0, %d)", index, len(v.stores)))
	}
	return v.stores[index], nil
}

// Size returns the VSS region's addressable size, as supplied at Open.
func (v *Volume) Size() uint64 {
	return v.br.Size()
}

func (v *Volume) storeRefs() []blocktree.StoreRef {
	refs := make([]blocktree.StoreRef, len(v.entries))
	for i, e := range v.entries {
		refs[i] = blocktree.StoreRef{SequenceIndex: i, BlockListHeadOffset: e.Descriptor.BlockListOffset}
	}
	return refs
}

// storeSetAdapter lets internal/resolver address Volume's stores without
// internal/resolver importing internal/services (see
// internal/interfaces/block_source.go).
type storeSetAdapter struct {
	volume *Volume
}

func (a *storeSetAdapter) StoreBySequenceIndex(idx int) (interfaces.StoreView, bool) {
	store, err := a.volume.Store(idx)
	if err != nil {
		return nil, false
	}
	if err := store.materialize(); err != nil {
		return nil, false
	}
	return store, true
}

func (a *storeSetAdapter) NewestIndex() int {
	return a.volume.StoreCount() - 1
}

func (a *storeSetAdapter) Count() int {
	return a.volume.StoreCount()
}

var _ interfaces.StoreSet = (*storeSetAdapter)(nil)
