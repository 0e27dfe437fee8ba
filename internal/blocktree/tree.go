// Package blocktree builds one store's block tree, a map from 16 KiB-aligned
// original volume offset to resolved block descriptor, disposing each block-list
// descriptor's flags per its forwarder/overlay/copy policy.
package blocktree

import (
	"github.com/deploymenttheory/go-vss/internal/metadata"
	"github.com/deploymenttheory/go-vss/internal/types"
)

// Entry is one block tree slot: the winning primary (non-overlay)
// descriptor, if any, plus an ordered slice of overlays layered on top of
// it. Primary is nil when only overlays arrived at this offset; the base
// bytes must then be resolved by falling through to the next newer store.
type Entry struct {
	Primary  *types.ResolvedSource
	Overlays []types.Overlay
}

// Tree is the materialized block tree for one store: a hash map keyed by
// 16 KiB-aligned original offset. A map suffices because lookups are
// always by exact aligned key, never by range scan; the original-offset
// intervals stored here are non-overlapping, but nothing requires visiting
// them in order (see DESIGN.md).
type Tree struct {
	entries map[uint64]*Entry
}

// StoreRef identifies one known store by its block-list chain head offset,
// used to resolve IS_FORWARDER descriptors.
type StoreRef struct {
	SequenceIndex       int
	BlockListHeadOffset uint64
}

// Build disposes every block-list entry (NOT_USED has already been filtered
// out by internal/metadata) and assembles the resulting Tree.
func Build(entries []metadata.BlockListEntry, knownStores []StoreRef) *Tree {
	t := &Tree{entries: make(map[uint64]*Entry, len(entries))}

	for _, e := range entries {
		d := e.Descriptor

		switch {
		case d.Flags.Has(types.FlagIsForwarder):
			target, ok := findStoreByBlockListHead(knownStores, d.StoreOffset)
			if ok {
				t.setPrimary(e.OriginalOffset, types.ResolvedSource{
					Kind:        types.SourceForwarded,
					ForwardedTo: target,
				})
			} else {
				// No match: treat as a plain copy.
				t.setPrimary(e.OriginalOffset, types.ResolvedSource{
					Kind:        types.SourceCopied,
					ImageOffset: d.StoreOffset,
				})
			}

		case d.Flags.Has(types.FlagIsOverlay):
			t.addOverlay(e.OriginalOffset, types.Overlay{
				ImageOffset: d.StoreOffset,
				Bitmap:      d.AllocationBitmap,
			})

		default:
			// Plain copy-on-write. Later insertion wins over an earlier
			// non-overlay descriptor at the same offset.
			t.setPrimary(e.OriginalOffset, types.ResolvedSource{
				Kind:        types.SourceCopied,
				ImageOffset: d.StoreOffset,
			})
		}
	}

	return t
}

func (t *Tree) setPrimary(originalOffset uint64, source types.ResolvedSource) {
	entry, ok := t.entries[originalOffset]
	if !ok {
		entry = &Entry{}
		t.entries[originalOffset] = entry
	}
	src := source
	entry.Primary = &src
}

func (t *Tree) addOverlay(originalOffset uint64, overlay types.Overlay) {
	entry, ok := t.entries[originalOffset]
	if !ok {
		entry = &Entry{}
		t.entries[originalOffset] = entry
	}
	entry.Overlays = append(entry.Overlays, overlay)
}

// Lookup implements interfaces.StoreView's block-tree half: it returns the
// primary descriptor (if any), the overlay list, and whether a primary was
// found.
func (t *Tree) Lookup(originalOffset uint64) (types.ResolvedSource, []types.Overlay, bool) {
	entry, ok := t.entries[originalOffset]
	if !ok {
		return types.ResolvedSource{}, nil, false
	}
	if entry.Primary == nil {
		return types.ResolvedSource{}, entry.Overlays, false
	}
	return *entry.Primary, entry.Overlays, true
}

func findStoreByBlockListHead(knownStores []StoreRef, storeOffset uint64) (int, bool) {
	for _, s := range knownStores {
		if s.BlockListHeadOffset == storeOffset {
			return s.SequenceIndex, true
		}
	}
	return 0, false
}
