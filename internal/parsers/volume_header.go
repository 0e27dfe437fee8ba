// Package parsers decodes the fixed-layout VSS on-disk records. Every
// decoder here is a pure function on a byte slice: no I/O, no state beyond
// what's passed in, validate-then-return.
package parsers

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-vss/internal/types"
)

// DecodeVolumeHeader decodes the 512-byte-used volume header record. data
// must contain at least enough bytes for the fields below (32 bytes);
// callers typically pass a full BlockSize-sized read.
//
// absoluteOffset is the position data was read from, used to validate the
// self-referencing CurrentOffset field against the expected location.
func DecodeVolumeHeader(data []byte, absoluteOffset uint64) (*types.VolumeHeaderT, error) {
	const minSize = 16 + 4 + 8 + 8
	if len(data) < minSize {
		return nil, types.NewError(types.InputError, "DecodeVolumeHeader",
			fmt.Errorf("data too small: got %d bytes, need at least %d", len(data), minSize))
	}

	h := &types.VolumeHeaderT{}
	copy(h.Signature[:], data[0:16])
	if h.Signature != types.Signature {
		return nil, types.NewError(types.InputError, "DecodeVolumeHeader",
			fmt.Errorf("signature mismatch: got % x", h.Signature))
	}

	h.RecordType = types.RecordType(binary.LittleEndian.Uint32(data[16:20]))
	if h.RecordType != types.RecordTypeVolumeHeader {
		return nil, types.NewError(types.InputError, "DecodeVolumeHeader",
			fmt.Errorf("record type mismatch: got %d, want %d", h.RecordType, types.RecordTypeVolumeHeader))
	}

	h.CurrentOffset = binary.LittleEndian.Uint64(data[20:28])
	h.CatalogOffset = binary.LittleEndian.Uint64(data[28:36])

	if h.CurrentOffset != absoluteOffset {
		return nil, types.NewError(types.InputError, "DecodeVolumeHeader",
			fmt.Errorf("self-offset mismatch: record claims 0x%x, read from 0x%x", h.CurrentOffset, absoluteOffset))
	}

	return h, nil
}
