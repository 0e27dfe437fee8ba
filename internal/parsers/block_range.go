package parsers

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-vss/internal/types"
)

// blockRangeHeaderSize is the parsed-field size of a block-range block
// header; the full on-disk header reserves 128 bytes.
const blockRangeHeaderSize = 16 + 4 + 8 + 8

// blockRangeEntrySize is the size of one block-range entry: a pair of
// 64-bit block numbers.
const blockRangeEntrySize = 16

// DecodeBlockRangeBlockHeader decodes the 128-byte header at the start of
// a store block-range block. Block-range records are validated here but
// never consulted by the resolver.
func DecodeBlockRangeBlockHeader(data []byte, absoluteOffset uint64) (*types.BlockRangeBlockHeaderT, error) {
	if len(data) < blockRangeHeaderSize {
		return nil, types.NewError(types.InputError, "DecodeBlockRangeBlockHeader",
			fmt.Errorf("data too small: got %d bytes, need at least %d", len(data), blockRangeHeaderSize))
	}

	h := &types.BlockRangeBlockHeaderT{}
	copy(h.Signature[:], data[0:16])
	if h.Signature != types.Signature {
		return nil, types.NewError(types.InputError, "DecodeBlockRangeBlockHeader",
			fmt.Errorf("signature mismatch: got % x", h.Signature))
	}

	h.RecordType = types.RecordType(binary.LittleEndian.Uint32(data[16:20]))
	if h.RecordType != types.RecordTypeStoreBlockRange {
		return nil, types.NewError(types.InputError, "DecodeBlockRangeBlockHeader",
			fmt.Errorf("record type mismatch: got %d, want %d", h.RecordType, types.RecordTypeStoreBlockRange))
	}

	h.RelativeOffset = binary.LittleEndian.Uint64(data[20:28])
	h.NextOffset = binary.LittleEndian.Uint64(data[28:36])

	if h.RelativeOffset != absoluteOffset {
		return nil, types.NewError(types.InputError, "DecodeBlockRangeBlockHeader",
			fmt.Errorf("self-offset mismatch: record claims 0x%x, read from 0x%x", h.RelativeOffset, absoluteOffset))
	}

	return h, nil
}

// DecodeBlockRanges decodes every block-range entry in a block-range
// block's body, stopping early at a trailing all-zero slot.
func DecodeBlockRanges(body []byte) []*types.BlockRangeT {
	var out []*types.BlockRangeT
	for offset := 0; offset+blockRangeEntrySize <= len(body); offset += blockRangeEntrySize {
		slot := body[offset : offset+blockRangeEntrySize]
		if isAllZero(slot) {
			break
		}
		out = append(out, &types.BlockRangeT{
			StartBlock: binary.LittleEndian.Uint64(slot[0:8]),
			EndBlock:   binary.LittleEndian.Uint64(slot[8:16]),
		})
	}
	return out
}
