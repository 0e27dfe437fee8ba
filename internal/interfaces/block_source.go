// File: internal/interfaces/block_source.go
package interfaces

import "github.com/deploymenttheory/go-vss/internal/types"

// StoreView is the subset of a loaded store's state the snapshot resolver
// needs, abstracted so the resolver package doesn't import the services
// package that owns the concrete Store type (avoiding an import cycle
// between the read engine and the resolver it calls into).
type StoreView interface {
	// SequenceNumber returns the store's chronological order key.
	SequenceNumber() uint32

	// BitmapBit reports whether the block starting at a 16 KiB-aligned
	// original offset is addressable in this store's view.
	BitmapBit(blockIndex uint64) bool

	// Lookup returns the primary (non-overlay) resolved descriptor for a
	// 16 KiB-aligned original offset, any overlays layered on top of it,
	// and whether a primary descriptor was found. foundPrimary == false
	// means "no primary in this store's tree" — which covers both "no
	// entry at all" and "an entry exists but holds only overlays" — and
	// resolution must fall through to the next newer store for the base
	// bytes before applying the returned overlays.
	Lookup(originalOffset uint64) (primary types.ResolvedSource, overlays []types.Overlay, foundPrimary bool)
}

// StoreSet resolves a store by its sequence order for forwarding and
// fall-through chases, and knows which store is newest (i.e. represents
// the live volume).
type StoreSet interface {
	// StoreBySequenceIndex returns the store at position idx in
	// ascending-sequence order.
	StoreBySequenceIndex(idx int) (StoreView, bool)

	// NewestIndex returns the sequence index of the newest store (the one
	// whose "next newer" store is the live volume itself).
	NewestIndex() int

	// Count returns the total number of stores, used to bound forwarding
	// cycle detection.
	Count() int
}
