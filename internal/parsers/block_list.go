package parsers

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-vss/internal/types"
)

// blockListHeaderSize is the parsed-field size of a block-list block
// header; the full on-disk header reserves 128 bytes.
const blockListHeaderSize = 16 + 4 + 8 + 8

// DecodeBlockListBlockHeader decodes the 128-byte header at the start of a
// store block-list block.
func DecodeBlockListBlockHeader(data []byte, absoluteOffset uint64) (*types.BlockListBlockHeaderT, error) {
	if len(data) < blockListHeaderSize {
		return nil, types.NewError(types.InputError, "DecodeBlockListBlockHeader",
			fmt.Errorf("data too small: got %d bytes, need at least %d", len(data), blockListHeaderSize))
	}

	h := &types.BlockListBlockHeaderT{}
	copy(h.Signature[:], data[0:16])
	if h.Signature != types.Signature {
		return nil, types.NewError(types.InputError, "DecodeBlockListBlockHeader",
			fmt.Errorf("signature mismatch: got % x", h.Signature))
	}

	h.RecordType = types.RecordType(binary.LittleEndian.Uint32(data[16:20]))
	if h.RecordType != types.RecordTypeStoreBlockList {
		return nil, types.NewError(types.InputError, "DecodeBlockListBlockHeader",
			fmt.Errorf("record type mismatch: got %d, want %d", h.RecordType, types.RecordTypeStoreBlockList))
	}

	h.RelativeOffset = binary.LittleEndian.Uint64(data[20:28])
	h.NextOffset = binary.LittleEndian.Uint64(data[28:36])

	if h.RelativeOffset != absoluteOffset {
		return nil, types.NewError(types.InputError, "DecodeBlockListBlockHeader",
			fmt.Errorf("self-offset mismatch: record claims 0x%x, read from 0x%x", h.RelativeOffset, absoluteOffset))
	}

	return h, nil
}

// DecodeBlockDescriptor decodes one 32-byte block descriptor record from a
// block-list block's body.
func DecodeBlockDescriptor(data []byte) (*types.BlockDescriptorT, error) {
	if len(data) < types.BlockDescriptorSize {
		return nil, types.NewError(types.InputError, "DecodeBlockDescriptor",
			fmt.Errorf("descriptor too small: got %d bytes, need %d", len(data), types.BlockDescriptorSize))
	}

	d := &types.BlockDescriptorT{}
	d.OriginalOffset = binary.LittleEndian.Uint64(data[0:8])
	d.RelativeStoreOffset = binary.LittleEndian.Uint32(data[8:12])
	d.StoreOffset = binary.LittleEndian.Uint64(data[12:20])
	d.Flags = types.BlockDescriptorFlag(binary.LittleEndian.Uint32(data[20:24]))
	d.AllocationBitmap = binary.LittleEndian.Uint32(data[24:28])
	return d, nil
}

// DecodeBlockDescriptors decodes every block descriptor in a block-list
// block's body (the bytes following the 128-byte header), stopping early
// if a trailing partial (all-zero) slot is encountered — on-disk block
// lists are not required to fill every slot in the final block of a chain.
func DecodeBlockDescriptors(body []byte) ([]*types.BlockDescriptorT, error) {
	var out []*types.BlockDescriptorT
	for offset := 0; offset+types.BlockDescriptorSize <= len(body); offset += types.BlockDescriptorSize {
		slot := body[offset : offset+types.BlockDescriptorSize]
		if isAllZero(slot) {
			break
		}
		d, err := DecodeBlockDescriptor(slot)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
