// Package metadata loads one store's three metadata chains (block list,
// block range, store bitmap) and materializes them into in-memory
// structures.
package metadata

import (
	"fmt"

	"github.com/deploymenttheory/go-vss/internal/catalog"
	"github.com/deploymenttheory/go-vss/internal/interfaces"
	"github.com/deploymenttheory/go-vss/internal/parsers"
	"github.com/deploymenttheory/go-vss/internal/types"
)

// BlockListEntry is one block-list descriptor as read from the chain, with
// NOT_USED descriptors already skipped. Its forwarder/overlay/copy
// disposition and its merge into a block tree are internal/blocktree's job.
type BlockListEntry struct {
	OriginalOffset uint64
	Descriptor     *types.BlockDescriptorT
}

// StoreMetadata is the materialized result of loading one store's three
// chains.
type StoreMetadata struct {
	// BlockList holds every non-skipped descriptor in chain arrival order;
	// internal/blocktree applies the later-wins / overlay-layering policy.
	BlockList []BlockListEntry

	// BlockRanges holds every parsed block-range entry. Parsed and
	// validated only — never consulted by the resolver.
	BlockRanges []*types.BlockRangeT

	// Bitmap answers "is original-volume block i addressable in this
	// store's view".
	Bitmap *parsers.Bitmap

	// PreviousBitmap is the store's second bitmap chain, parsed for
	// completeness but not consulted by the read path (see DESIGN.md).
	PreviousBitmap *parsers.Bitmap
}

// AbortFunc is polled between chain hops so a long-running load can be
// cancelled cooperatively.
type AbortFunc func() bool

// blockListHeaderBodySize is the body size of one block-list block: the
// full block minus its 128-byte header.
const blockListHeaderBodySize = types.BlockSize - 128

// Load walks a store's block-list, block-range, and (both) bitmap chains
// and returns the materialized StoreMetadata. knownStores is accepted but
// not consulted here: IS_FORWARDER descriptors are returned unresolved, and
// internal/blocktree matches their store_offset against the known stores'
// block-list head offsets.
func Load(br interfaces.ByteReader, desc types.StoreDescriptorT, knownStores []catalog.Entry, volumeSize uint64, obs interfaces.Observer, abort AbortFunc) (*StoreMetadata, error) {
	blockList, err := loadBlockList(br, desc.BlockListOffset, knownStores, obs, abort)
	if err != nil {
		return nil, err
	}

	blockRanges, err := loadBlockRangesViaStoreHeader(br, desc.StoreHeaderOffset, abort)
	if err != nil {
		return nil, err
	}

	bitmap, err := loadBitmapChain(br, desc.BitmapOffset, volumeSize, abort)
	if err != nil {
		return nil, err
	}

	var previousBitmap *parsers.Bitmap
	if desc.PreviousBitmapOffset != 0 {
		previousBitmap, err = loadBitmapChain(br, desc.PreviousBitmapOffset, volumeSize, abort)
		if err != nil {
			return nil, err
		}
	}

	return &StoreMetadata{
		BlockList:      blockList,
		BlockRanges:    blockRanges,
		Bitmap:         bitmap,
		PreviousBitmap: previousBitmap,
	}, nil
}

// loadBlockRangesViaStoreHeader reads the store header record to discover
// the block-range chain's head offset, then walks that chain. A store
// with no block-range chain (BlockRangeOffset == 0) yields an empty slice.
func loadBlockRangesViaStoreHeader(br interfaces.ByteReader, storeHeaderOffset uint64, abort AbortFunc) ([]*types.BlockRangeT, error) {
	block := make([]byte, types.BlockSize)
	n, err := br.ReadAt(storeHeaderOffset, block)
	if err != nil {
		return nil, types.NewError(types.IoError, "metadata.loadBlockRangesViaStoreHeader", err)
	}
	if n < types.BlockSize {
		return nil, types.NewError(types.IoError, "metadata.loadBlockRangesViaStoreHeader",
			fmt.Errorf("short read of store header at 0x%x: got %d bytes", storeHeaderOffset, n))
	}

	header, err := parsers.DecodeStoreHeader(block, storeHeaderOffset)
	if err != nil {
		return nil, err
	}

	if header.BlockRangeOffset == 0 {
		return nil, nil
	}

	return loadBlockRanges(br, header.BlockRangeOffset, abort)
}

func loadBlockList(br interfaces.ByteReader, head uint64, knownStores []catalog.Entry, obs interfaces.Observer, abort AbortFunc) ([]BlockListEntry, error) {
	var out []BlockListEntry

	addr := head
	for addr != 0 {
		if abort != nil && abort() {
			return nil, types.NewError(types.RuntimeError, "metadata.loadBlockList", fmt.Errorf("abort requested"))
		}

		block := make([]byte, types.BlockSize)
		n, err := br.ReadAt(addr, block)
		if err != nil {
			return nil, types.NewError(types.IoError, "metadata.loadBlockList", err)
		}
		if n < types.BlockSize {
			return nil, types.NewError(types.IoError, "metadata.loadBlockList",
				fmt.Errorf("short read of block-list block at 0x%x: got %d bytes", addr, n))
		}

		header, err := parsers.DecodeBlockListBlockHeader(block, addr)
		if err != nil {
			return nil, err
		}

		descriptors, err := parsers.DecodeBlockDescriptors(block[128:])
		if err != nil {
			return nil, err
		}

		for _, d := range descriptors {
			if d.Flags.Has(types.FlagNotUsed) {
				// Resolved in DESIGN.md: a NOT_USED descriptor is skipped
				// unconditionally and never reaches the overlay/forwarder/
				// copy disposition below.
				continue
			}
			out = append(out, BlockListEntry{OriginalOffset: d.OriginalOffset, Descriptor: d})
		}

		addr = header.NextOffset
	}

	_ = knownStores // forwarder target resolution happens in internal/blocktree, which has the full store set
	_ = obs
	return out, nil
}

func loadBlockRanges(br interfaces.ByteReader, head uint64, abort AbortFunc) ([]*types.BlockRangeT, error) {
	var out []*types.BlockRangeT

	addr := head
	for addr != 0 {
		if abort != nil && abort() {
			return nil, types.NewError(types.RuntimeError, "metadata.loadBlockRanges", fmt.Errorf("abort requested"))
		}

		block := make([]byte, types.BlockSize)
		n, err := br.ReadAt(addr, block)
		if err != nil {
			return nil, types.NewError(types.IoError, "metadata.loadBlockRanges", err)
		}
		if n < types.BlockSize {
			return nil, types.NewError(types.IoError, "metadata.loadBlockRanges",
				fmt.Errorf("short read of block-range block at 0x%x: got %d bytes", addr, n))
		}

		header, err := parsers.DecodeBlockRangeBlockHeader(block, addr)
		if err != nil {
			return nil, err
		}

		out = append(out, parsers.DecodeBlockRanges(block[128:])...)
		addr = header.NextOffset
	}

	return out, nil
}

func loadBitmapChain(br interfaces.ByteReader, head uint64, volumeSize uint64, abort AbortFunc) (*parsers.Bitmap, error) {
	var body []byte

	addr := head
	for addr != 0 {
		if abort != nil && abort() {
			return nil, types.NewError(types.RuntimeError, "metadata.loadBitmapChain", fmt.Errorf("abort requested"))
		}

		block := make([]byte, types.BlockSize)
		n, err := br.ReadAt(addr, block)
		if err != nil {
			return nil, types.NewError(types.IoError, "metadata.loadBitmapChain", err)
		}
		if n < types.BlockSize {
			return nil, types.NewError(types.IoError, "metadata.loadBitmapChain",
				fmt.Errorf("short read of bitmap block at 0x%x: got %d bytes", addr, n))
		}

		header, err := parsers.DecodeStoreBitmapBlockHeader(block, addr)
		if err != nil {
			return nil, err
		}

		body = append(body, block[128:]...)
		addr = header.NextOffset
	}

	lengthInBits := (volumeSize + types.BlockSize - 1) / types.BlockSize
	return parsers.NewBitmap(body, lengthInBits), nil
}
