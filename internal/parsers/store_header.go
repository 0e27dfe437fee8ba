package parsers

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-vss/internal/types"
)

// storeHeaderSize is the parsed-field size of a store header record.
const storeHeaderSize = 16 + 4 + 8 + 8

// DecodeStoreHeader decodes the record at a store descriptor's
// StoreHeaderOffset (record type 4), used to discover the store's
// block-range chain head (see DESIGN.md's open-question decision).
func DecodeStoreHeader(data []byte, absoluteOffset uint64) (*types.StoreHeaderT, error) {
	if len(data) < storeHeaderSize {
		return nil, types.NewError(types.InputError, "DecodeStoreHeader",
			fmt.Errorf("data too small: got %d bytes, need at least %d", len(data), storeHeaderSize))
	}

	h := &types.StoreHeaderT{}
	copy(h.Signature[:], data[0:16])
	if h.Signature != types.Signature {
		return nil, types.NewError(types.InputError, "DecodeStoreHeader",
			fmt.Errorf("signature mismatch: got % x", h.Signature))
	}

	h.RecordType = types.RecordType(binary.LittleEndian.Uint32(data[16:20]))
	if h.RecordType != types.RecordTypeStoreDescriptor {
		return nil, types.NewError(types.InputError, "DecodeStoreHeader",
			fmt.Errorf("record type mismatch: got %d, want %d", h.RecordType, types.RecordTypeStoreDescriptor))
	}

	h.RelativeOffset = binary.LittleEndian.Uint64(data[20:28])
	h.BlockRangeOffset = binary.LittleEndian.Uint64(data[28:36])

	if h.RelativeOffset != absoluteOffset {
		return nil, types.NewError(types.InputError, "DecodeStoreHeader",
			fmt.Errorf("self-offset mismatch: record claims 0x%x, read from 0x%x", h.RelativeOffset, absoluteOffset))
	}

	return h, nil
}
