package parsers

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-vss/internal/types"
)

// storeBitmapHeaderSize is the parsed-field size of a store bitmap block
// header; the full on-disk header reserves 128 bytes.
const storeBitmapHeaderSize = 16 + 4 + 8 + 8

// DecodeStoreBitmapBlockHeader decodes the 128-byte header at the start of
// a store bitmap block.
func DecodeStoreBitmapBlockHeader(data []byte, absoluteOffset uint64) (*types.StoreBitmapBlockHeaderT, error) {
	if len(data) < storeBitmapHeaderSize {
		return nil, types.NewError(types.InputError, "DecodeStoreBitmapBlockHeader",
			fmt.Errorf("data too small: got %d bytes, need at least %d", len(data), storeBitmapHeaderSize))
	}

	h := &types.StoreBitmapBlockHeaderT{}
	copy(h.Signature[:], data[0:16])
	if h.Signature != types.Signature {
		return nil, types.NewError(types.InputError, "DecodeStoreBitmapBlockHeader",
			fmt.Errorf("signature mismatch: got % x", h.Signature))
	}

	h.RecordType = types.RecordType(binary.LittleEndian.Uint32(data[16:20]))
	if h.RecordType != types.RecordTypeStoreBitmap {
		return nil, types.NewError(types.InputError, "DecodeStoreBitmapBlockHeader",
			fmt.Errorf("record type mismatch: got %d, want %d", h.RecordType, types.RecordTypeStoreBitmap))
	}

	h.RelativeOffset = binary.LittleEndian.Uint64(data[20:28])
	h.NextOffset = binary.LittleEndian.Uint64(data[28:36])

	if h.RelativeOffset != absoluteOffset {
		return nil, types.NewError(types.InputError, "DecodeStoreBitmapBlockHeader",
			fmt.Errorf("self-offset mismatch: record claims 0x%x, read from 0x%x", h.RelativeOffset, absoluteOffset))
	}

	return h, nil
}
