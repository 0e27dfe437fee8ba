package resolver

import (
	"testing"

	"github.com/deploymenttheory/go-vss/internal/interfaces"
	"github.com/deploymenttheory/go-vss/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntry struct {
	primary      types.ResolvedSource
	overlays     []types.Overlay
	foundPrimary bool
}

type fakeStore struct {
	seq     uint32
	bitmap  map[uint64]bool // blockIndex -> addressable; missing key defaults to addressable
	entries map[uint64]fakeEntry
}

func (s *fakeStore) SequenceNumber() uint32 { return s.seq }

func (s *fakeStore) BitmapBit(blockIndex uint64) bool {
	v, ok := s.bitmap[blockIndex]
	if !ok {
		return true
	}
	return v
}

func (s *fakeStore) Lookup(originalOffset uint64) (types.ResolvedSource, []types.Overlay, bool) {
	e, ok := s.entries[originalOffset]
	if !ok {
		return types.ResolvedSource{}, nil, false
	}
	return e.primary, e.overlays, e.foundPrimary
}

type fakeStoreSet struct {
	stores []*fakeStore
}

func (s *fakeStoreSet) StoreBySequenceIndex(idx int) (interfaces.StoreView, bool) {
	if idx < 0 || idx >= len(s.stores) {
		return nil, false
	}
	return s.stores[idx], true
}

func (s *fakeStoreSet) NewestIndex() int { return len(s.stores) - 1 }
func (s *fakeStoreSet) Count() int       { return len(s.stores) }

func TestResolve_S1_NoEntryOnNewestIsInPlace(t *testing.T) {
	stores := &fakeStoreSet{stores: []*fakeStore{
		{entries: map[uint64]fakeEntry{}},
	}}
	r := New(stores)

	plan, err := r.Resolve(0, 0)
	require.NoError(t, err)
	for i, s := range plan {
		assert.Equal(t, types.SourceInPlace, s.Kind)
		assert.Equal(t, uint64(i)*types.SubBlockSize, s.ImageOffset)
	}
}

func TestResolve_S2_Copied(t *testing.T) {
	stores := &fakeStoreSet{stores: []*fakeStore{
		{entries: map[uint64]fakeEntry{
			0x4000: {primary: types.ResolvedSource{Kind: types.SourceCopied, ImageOffset: 0x80000}, foundPrimary: true},
		}},
	}}
	r := New(stores)

	plan, err := r.Resolve(0, 0x4000)
	require.NoError(t, err)
	assert.Equal(t, types.SourceCopied, plan[0].Kind)
	assert.Equal(t, uint64(0x80000), plan[0].ImageOffset)
	assert.Equal(t, uint64(0x80000+15*types.SubBlockSize), plan[15].ImageOffset)
}

func TestResolve_S3_Forwarded(t *testing.T) {
	stores := &fakeStoreSet{stores: []*fakeStore{
		{entries: map[uint64]fakeEntry{
			0x4000: {primary: types.ResolvedSource{Kind: types.SourceForwarded, ForwardedTo: 1}, foundPrimary: true},
		}},
		{entries: map[uint64]fakeEntry{
			0x4000: {primary: types.ResolvedSource{Kind: types.SourceCopied, ImageOffset: 0xC0000}, foundPrimary: true},
		}},
	}}
	r := New(stores)

	plan, err := r.Resolve(0, 0x4000)
	require.NoError(t, err)
	assert.Equal(t, types.SourceCopied, plan[0].Kind)
	assert.Equal(t, uint64(0xC0000), plan[0].ImageOffset)
}

func TestResolve_S4_OverlayMasksSubset(t *testing.T) {
	stores := &fakeStoreSet{stores: []*fakeStore{
		{entries: map[uint64]fakeEntry{
			0x0: {
				primary:      types.ResolvedSource{Kind: types.SourceCopied, ImageOffset: 0x1000},
				overlays:     []types.Overlay{{ImageOffset: 0xE0000, Bitmap: 0b0000000000000101}},
				foundPrimary: true,
			},
		}},
	}}
	r := New(stores)

	plan, err := r.Resolve(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xE0000), plan[0].ImageOffset)
	assert.Equal(t, uint64(0x1000+1*types.SubBlockSize), plan[1].ImageOffset)
	assert.Equal(t, uint64(0xE0000+2*types.SubBlockSize), plan[2].ImageOffset)
	assert.Equal(t, uint64(0x1000+3*types.SubBlockSize), plan[3].ImageOffset)
}

func TestResolve_S5_BitmapClearedIsZero(t *testing.T) {
	stores := &fakeStoreSet{stores: []*fakeStore{
		{bitmap: map[uint64]bool{0: false}},
	}}
	r := New(stores)

	plan, err := r.Resolve(0, 0)
	require.NoError(t, err)
	for _, s := range plan {
		assert.Equal(t, types.SourceZero, s.Kind)
	}
}

func TestResolve_S6_ForwardingCycleErrors(t *testing.T) {
	stores := &fakeStoreSet{stores: []*fakeStore{
		{entries: map[uint64]fakeEntry{
			0x4000: {primary: types.ResolvedSource{Kind: types.SourceForwarded, ForwardedTo: 1}, foundPrimary: true},
		}},
		{entries: map[uint64]fakeEntry{
			0x4000: {primary: types.ResolvedSource{Kind: types.SourceForwarded, ForwardedTo: 0}, foundPrimary: true},
		}},
	}}
	r := New(stores)

	_, err := r.Resolve(0, 0x4000)
	require.Error(t, err)
}

func TestResolve_NoEntryFallsThroughToNextNewer(t *testing.T) {
	stores := &fakeStoreSet{stores: []*fakeStore{
		{entries: map[uint64]fakeEntry{}},
		{entries: map[uint64]fakeEntry{
			0x4000: {primary: types.ResolvedSource{Kind: types.SourceCopied, ImageOffset: 0x55000}, foundPrimary: true},
		}},
	}}
	r := New(stores)

	plan, err := r.Resolve(0, 0x4000)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x55000), plan[0].ImageOffset)
}
