// Package resolver implements the snapshot resolver: for a given store
// and a 16 KiB-aligned original offset, it produces the
// resolved source of every 1,024-byte sub-block, following forwarders and
// layering overlays across the chain of "diff against newer" stores.
package resolver

import (
	"fmt"

	"github.com/deploymenttheory/go-vss/internal/interfaces"
	"github.com/deploymenttheory/go-vss/internal/types"
)

// SubBlockPlan is the resolved source for every 1,024-byte sub-block of one
// 16 KiB-aligned original-volume block, in sub-block order.
type SubBlockPlan [types.SubBlocksPerBlock]types.SubBlockSource

// Resolver resolves original-volume offsets against a fixed set of stores.
type Resolver struct {
	stores interfaces.StoreSet
}

// New builds a Resolver over the given store set.
func New(stores interfaces.StoreSet) *Resolver {
	return &Resolver{stores: stores}
}

// Resolve produces the sub-block plan for the 16 KiB block containing
// originalOffset, as seen from store storeIdx.
func (r *Resolver) Resolve(storeIdx int, originalOffset uint64) (SubBlockPlan, error) {
	aligned := (originalOffset / types.BlockSize) * types.BlockSize
	visited := make(map[int]bool, r.stores.Count())
	return r.resolve(storeIdx, aligned, visited)
}

func (r *Resolver) resolve(storeIdx int, aligned uint64, visited map[int]bool) (SubBlockPlan, error) {
	if visited[storeIdx] {
		return SubBlockPlan{}, types.NewError(types.RuntimeError, "resolver.resolve",
			fmt.Errorf("forwarding cycle detected at store index %d", storeIdx))
	}
	if len(visited) > r.stores.Count() {
		return SubBlockPlan{}, types.NewError(types.RuntimeError, "resolver.resolve",
			fmt.Errorf("forwarding depth exceeds store count %d", r.stores.Count()))
	}
	visited[storeIdx] = true

	store, ok := r.stores.StoreBySequenceIndex(storeIdx)
	if !ok {
		return SubBlockPlan{}, types.NewError(types.ArgumentError, "resolver.resolve",
			fmt.Errorf("unknown store index %d", storeIdx))
	}

	blockIndex := aligned / types.BlockSize
	if !store.BitmapBit(blockIndex) {
		return zeroPlan(), nil
	}

	primary, overlays, foundPrimary := store.Lookup(aligned)

	var base SubBlockPlan
	if !foundPrimary {
		var err error
		base, err = r.resolveFallthrough(storeIdx, aligned, visited)
		if err != nil {
			return SubBlockPlan{}, err
		}
	} else {
		switch primary.Kind {
		case types.SourceCopied:
			base = copiedPlan(primary.ImageOffset)
		case types.SourceForwarded:
			var err error
			base, err = r.resolve(primary.ForwardedTo, aligned, visited)
			if err != nil {
				return SubBlockPlan{}, err
			}
		default:
			return SubBlockPlan{}, types.NewError(types.RuntimeError, "resolver.resolve",
				fmt.Errorf("unexpected primary source kind %d at store %d offset 0x%x", primary.Kind, storeIdx, aligned))
		}
	}

	applyOverlays(&base, overlays)
	return base, nil
}

// resolveFallthrough handles the "no entry" case: continue against the next
// newer store, or treat this store's own live volume as the base if it is
// already the newest.
func (r *Resolver) resolveFallthrough(storeIdx int, aligned uint64, visited map[int]bool) (SubBlockPlan, error) {
	if storeIdx == r.stores.NewestIndex() {
		return inPlacePlan(aligned), nil
	}
	return r.resolve(storeIdx+1, aligned, visited)
}

func zeroPlan() SubBlockPlan {
	var plan SubBlockPlan
	for i := range plan {
		plan[i] = types.SubBlockSource{ResolvedSource: types.ResolvedSource{Kind: types.SourceZero}}
	}
	return plan
}

func inPlacePlan(aligned uint64) SubBlockPlan {
	var plan SubBlockPlan
	for i := range plan {
		plan[i] = types.SubBlockSource{ResolvedSource: types.ResolvedSource{
			Kind:        types.SourceInPlace,
			ImageOffset: aligned + uint64(i)*types.SubBlockSize,
		}}
	}
	return plan
}

func copiedPlan(imageBlockOffset uint64) SubBlockPlan {
	var plan SubBlockPlan
	for i := range plan {
		plan[i] = types.SubBlockSource{ResolvedSource: types.ResolvedSource{
			Kind:        types.SourceCopied,
			ImageOffset: imageBlockOffset + uint64(i)*types.SubBlockSize,
		}}
	}
	return plan
}

// applyOverlays masks base sub-blocks with any overlay that covers them,
// later overlays in the slice winning on overlap.
func applyOverlays(base *SubBlockPlan, overlays []types.Overlay) {
	for _, ov := range overlays {
		for i := 0; i < types.SubBlocksPerBlock; i++ {
			if ov.Bitmap&(1<<uint(i)) == 0 {
				continue
			}
			base[i] = types.SubBlockSource{ResolvedSource: types.ResolvedSource{
				Kind:        types.SourceCopied,
				ImageOffset: ov.ImageOffset + uint64(i)*types.SubBlockSize,
			}}
		}
	}
}
