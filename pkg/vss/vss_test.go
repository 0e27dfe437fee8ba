package vss_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/go-vss/internal/types"
	"github.com/deploymenttheory/go-vss/pkg/vss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHeader(block []byte, recordType types.RecordType, selfOffset, trailing uint64) {
	copy(block[0:16], types.Signature[:])
	binary.LittleEndian.PutUint32(block[16:20], uint32(recordType))
	binary.LittleEndian.PutUint64(block[20:28], selfOffset)
	binary.LittleEndian.PutUint64(block[28:36], trailing)
}

// newFixture builds a minimal single-store VSS region with an empty block
// list and an all-addressable bitmap, exercising the facade's wiring of
// WithVolumeSize through to internal/services.Open.
func newFixture(t *testing.T) []byte {
	t.Helper()

	const blocks = 12
	img := make([]byte, types.BlockSize*blocks)

	const catalogOff = types.BlockSize * 8
	const storeHeaderOff = types.BlockSize * 9
	const blockListOff = types.BlockSize * 10
	const bitmapOff = types.BlockSize * 11

	writeHeader(img[types.VolumeHeaderOffset:types.VolumeHeaderOffset+36], types.RecordTypeVolumeHeader, types.VolumeHeaderOffset, catalogOff)

	storeID, err := types.ParseGUID("44444444-4444-4444-4444-444444444444")
	require.NoError(t, err)

	catalogBlock := img[catalogOff : catalogOff+types.BlockSize]
	writeHeader(catalogBlock, types.RecordTypeCatalog, catalogOff, 0)

	infoSlot := catalogBlock[128:256]
	binary.LittleEndian.PutUint32(infoSlot[0:4], uint32(types.CatalogEntryStoreInformation))
	copy(infoSlot[4:20], storeID[:])
	binary.LittleEndian.PutUint32(infoSlot[28:32], 1) // sequence number

	descSlot := catalogBlock[256:384]
	binary.LittleEndian.PutUint32(descSlot[0:4], uint32(types.CatalogEntryStoreDescriptor))
	copy(descSlot[4:20], storeID[:])
	binary.LittleEndian.PutUint64(descSlot[20:28], storeHeaderOff)
	binary.LittleEndian.PutUint64(descSlot[28:36], blockListOff)
	binary.LittleEndian.PutUint64(descSlot[36:44], bitmapOff)

	writeHeader(img[storeHeaderOff:storeHeaderOff+types.BlockSize], types.RecordTypeStoreDescriptor, storeHeaderOff, 0)
	writeHeader(img[blockListOff:blockListOff+types.BlockSize], types.RecordTypeStoreBlockList, blockListOff, 0)

	bitmapBlock := img[bitmapOff : bitmapOff+types.BlockSize]
	writeHeader(bitmapBlock, types.RecordTypeStoreBitmap, bitmapOff, 0)
	bitmapBlock[128] = 0b00001111

	return img
}

func TestOpen_RequiresVolumeSize(t *testing.T) {
	img := newFixture(t)
	_, err := vss.Open(bytes.NewReader(img), 0)
	require.Error(t, err)
}

func TestOpen_StoresSummary(t *testing.T) {
	img := newFixture(t)

	live := img[types.BlockSize*2 : types.BlockSize*3]
	for i := range live {
		live[i] = byte(i % 251)
	}

	v, err := vss.Open(bytes.NewReader(img), 0, vss.WithVolumeSize(types.BlockSize*4))
	require.NoError(t, err)
	defer v.Close()

	summaries, err := v.Stores()
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, uint32(1), summaries[0].SequenceNumber)
	assert.Equal(t, uint64(types.BlockSize*4), summaries[0].Size)

	store, err := v.Store(0)
	require.NoError(t, err)
	buf := make([]byte, 32)
	n, err := store.ReadAt(buf, int64(types.BlockSize*2))
	require.NoError(t, err)
	assert.Equal(t, 32, n)
	assert.Equal(t, live[:32], buf)
}

func TestCheckSignature(t *testing.T) {
	img := newFixture(t)
	ok, err := vss.CheckSignature(bytes.NewReader(img), 0)
	require.NoError(t, err)
	assert.True(t, ok)
}
