package parsers

import (
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/go-vss/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBlockDescriptor(originalOffset uint64, relStoreOffset uint32, storeOffset uint64, flags types.BlockDescriptorFlag, bitmap uint32) []byte {
	b := make([]byte, types.BlockDescriptorSize)
	binary.LittleEndian.PutUint64(b[0:8], originalOffset)
	binary.LittleEndian.PutUint32(b[8:12], relStoreOffset)
	binary.LittleEndian.PutUint64(b[12:20], storeOffset)
	binary.LittleEndian.PutUint32(b[20:24], uint32(flags))
	binary.LittleEndian.PutUint32(b[24:28], bitmap)
	return b
}

func TestDecodeBlockDescriptor_Copied(t *testing.T) {
	raw := buildBlockDescriptor(0x4000, 0, 0x80000, 0, 0)
	d, err := DecodeBlockDescriptor(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x4000), d.OriginalOffset)
	assert.Equal(t, uint64(0x80000), d.StoreOffset)
	assert.False(t, d.Flags.Has(types.FlagIsForwarder))
}

func TestDecodeBlockDescriptors_StopsAtAllZeroSlot(t *testing.T) {
	var body []byte
	body = append(body, buildBlockDescriptor(0x4000, 0, 0x80000, 0, 0)...)
	body = append(body, buildBlockDescriptor(0x8000, 0, 0xC0000, uint32(types.FlagIsForwarder), 0)...)
	body = append(body, make([]byte, types.BlockDescriptorSize)...) // trailing all-zero slot

	descs, err := DecodeBlockDescriptors(body)
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.True(t, descs[1].Flags.Has(types.FlagIsForwarder))
}

func TestDecodeBlockListBlockHeader_SelfOffsetMismatch(t *testing.T) {
	data := make([]byte, types.BlockSize)
	copy(data[0:16], types.Signature[:])
	binary.LittleEndian.PutUint32(data[16:20], uint32(types.RecordTypeStoreBlockList))
	binary.LittleEndian.PutUint64(data[20:28], 0x1000)

	_, err := DecodeBlockListBlockHeader(data, 0x2000)
	require.Error(t, err)
}
