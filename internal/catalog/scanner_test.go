package catalog

import (
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/go-vss/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeByteReader is an in-memory interfaces.ByteReader backed by a byte
// slice, used by this package's tests to avoid real file I/O.
type fakeByteReader struct {
	data []byte
}

func newFakeByteReader(size uint64) *fakeByteReader {
	return &fakeByteReader{data: make([]byte, size)}
}

func (f *fakeByteReader) ReadAt(offset uint64, buf []byte) (int, error) {
	if offset >= uint64(len(f.data)) {
		return 0, nil
	}
	n := copy(buf, f.data[offset:])
	return n, nil
}

func (f *fakeByteReader) Size() uint64 {
	return uint64(len(f.data))
}

func writeCatalogHeader(block []byte, selfOffset, nextOffset uint64) {
	copy(block[0:16], types.Signature[:])
	binary.LittleEndian.PutUint32(block[16:20], uint32(types.RecordTypeCatalog))
	binary.LittleEndian.PutUint64(block[20:28], selfOffset)
	binary.LittleEndian.PutUint64(block[28:36], nextOffset)
}

func writeStoreInfoEntry(block []byte, slot int, guid types.GUID, seq uint32) {
	start := types.CatalogEntrySize * slot
	entry := block[start : start+types.CatalogEntrySize]
	binary.LittleEndian.PutUint32(entry[0:4], uint32(types.CatalogEntryStoreInformation))
	copy(entry[4:20], guid[:])
	binary.LittleEndian.PutUint64(entry[20:28], uint64(types.FileTime(0)))
	binary.LittleEndian.PutUint32(entry[28:32], seq)
}

func writeStoreDescriptorEntry(block []byte, slot int, guid types.GUID, blockListOff uint64) {
	start := types.CatalogEntrySize * slot
	entry := block[start : start+types.CatalogEntrySize]
	binary.LittleEndian.PutUint32(entry[0:4], uint32(types.CatalogEntryStoreDescriptor))
	copy(entry[4:20], guid[:])
	binary.LittleEndian.PutUint64(entry[20:28], 0x1000)
	binary.LittleEndian.PutUint64(entry[28:36], blockListOff)
	binary.LittleEndian.PutUint64(entry[36:44], 0x3000)
	binary.LittleEndian.PutUint64(entry[44:52], 0x4000)
}

func TestScan_SingleBlockTwoStores(t *testing.T) {
	br := newFakeByteReader(types.BlockSize * 2)

	block := br.data[types.BlockSize : types.BlockSize*2]
	writeCatalogHeader(block, types.BlockSize, 0)

	guidA, _ := types.ParseGUID("00000000-0000-0000-0000-000000000001")
	guidB, _ := types.ParseGUID("00000000-0000-0000-0000-000000000002")

	// slot 1 = info A, slot 2 = descriptor A, slot 3 = info B, slot 4 = descriptor B
	writeStoreInfoEntry(block, 1, guidA, 5)
	writeStoreDescriptorEntry(block, 2, guidA, 0x5000)
	writeStoreInfoEntry(block, 3, guidB, 2)
	writeStoreDescriptorEntry(block, 4, guidB, 0x6000)

	header := types.VolumeHeaderT{CatalogOffset: types.BlockSize}
	entries, err := Scan(br, header, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// sorted by sequence number ascending: B (seq 2) before A (seq 5)
	assert.Equal(t, guidB, entries[0].Info.StoreID)
	assert.Equal(t, guidA, entries[1].Info.StoreID)
}

func TestScan_DescriptorWithoutInfo_Errors(t *testing.T) {
	br := newFakeByteReader(types.BlockSize * 2)
	block := br.data[types.BlockSize : types.BlockSize*2]
	writeCatalogHeader(block, types.BlockSize, 0)

	guid, _ := types.ParseGUID("00000000-0000-0000-0000-000000000001")
	writeStoreDescriptorEntry(block, 1, guid, 0x5000)

	header := types.VolumeHeaderT{CatalogOffset: types.BlockSize}
	_, err := Scan(br, header, nil, nil)
	require.Error(t, err)
}

func TestScan_DuplicateGUID_LastInfoWins(t *testing.T) {
	br := newFakeByteReader(types.BlockSize * 2)
	block := br.data[types.BlockSize : types.BlockSize*2]
	writeCatalogHeader(block, types.BlockSize, 0)

	guid, _ := types.ParseGUID("00000000-0000-0000-0000-000000000001")
	writeStoreInfoEntry(block, 1, guid, 1)
	writeStoreInfoEntry(block, 2, guid, 99) // later info for same GUID wins
	writeStoreDescriptorEntry(block, 3, guid, 0x5000)

	header := types.VolumeHeaderT{CatalogOffset: types.BlockSize}
	entries, err := Scan(br, header, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint32(99), entries[0].Info.SequenceNumber)
}

func TestScan_ChainsToNextCatalogBlock(t *testing.T) {
	br := newFakeByteReader(types.BlockSize * 3)

	block0 := br.data[types.BlockSize : types.BlockSize*2]
	writeCatalogHeader(block0, types.BlockSize, types.BlockSize*2)

	guid, _ := types.ParseGUID("00000000-0000-0000-0000-000000000001")
	writeStoreInfoEntry(block0, 1, guid, 1)
	writeStoreDescriptorEntry(block0, 2, guid, 0x5000)

	block1 := br.data[types.BlockSize*2 : types.BlockSize*3]
	writeCatalogHeader(block1, types.BlockSize*2, 0)

	header := types.VolumeHeaderT{CatalogOffset: types.BlockSize}
	entries, err := Scan(br, header, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestScan_AbortRequested(t *testing.T) {
	br := newFakeByteReader(types.BlockSize * 2)
	block := br.data[types.BlockSize : types.BlockSize*2]
	writeCatalogHeader(block, types.BlockSize, 0)

	header := types.VolumeHeaderT{CatalogOffset: types.BlockSize}
	_, err := Scan(br, header, nil, func() bool { return true })
	require.Error(t, err)
}
