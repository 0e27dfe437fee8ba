package parsers

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-vss/internal/types"
)

// catalogHeaderSize is the parsed-field size of a catalog block header;
// the full on-disk header reserves types.CatalogEntrySize (128) bytes, of
// which only the leading fields below are meaningful.
const catalogHeaderSize = 16 + 4 + 8 + 8

// DecodeCatalogBlockHeader decodes the 128-byte header at the start of a
// catalog block.
func DecodeCatalogBlockHeader(data []byte, absoluteOffset uint64) (*types.CatalogBlockHeaderT, error) {
	if len(data) < catalogHeaderSize {
		return nil, types.NewError(types.InputError, "DecodeCatalogBlockHeader",
			fmt.Errorf("data too small: got %d bytes, need at least %d", len(data), catalogHeaderSize))
	}

	h := &types.CatalogBlockHeaderT{}
	copy(h.Signature[:], data[0:16])
	if h.Signature != types.Signature {
		return nil, types.NewError(types.InputError, "DecodeCatalogBlockHeader",
			fmt.Errorf("signature mismatch: got % x", h.Signature))
	}

	h.RecordType = types.RecordType(binary.LittleEndian.Uint32(data[16:20]))
	if h.RecordType != types.RecordTypeCatalog {
		return nil, types.NewError(types.InputError, "DecodeCatalogBlockHeader",
			fmt.Errorf("record type mismatch: got %d, want %d", h.RecordType, types.RecordTypeCatalog))
	}

	h.RelativeOffset = binary.LittleEndian.Uint64(data[20:28])
	h.NextOffset = binary.LittleEndian.Uint64(data[28:36])

	if h.RelativeOffset != absoluteOffset {
		return nil, types.NewError(types.InputError, "DecodeCatalogBlockHeader",
			fmt.Errorf("self-offset mismatch: record claims 0x%x, read from 0x%x", h.RelativeOffset, absoluteOffset))
	}

	return h, nil
}

// catalogEntryDataSize is the size of one catalog entry's type-specific
// body, i.e. types.CatalogEntrySize minus the 4-byte type discriminant.
const catalogEntryDataSize = types.CatalogEntrySize - 4

// DecodeCatalogEntryType reads only the leading 4-byte type discriminant
// of a 128-byte catalog entry slot, letting the caller dispatch before
// paying for a full decode.
func DecodeCatalogEntryType(entry []byte) (types.CatalogEntryType, error) {
	if len(entry) < 4 {
		return 0, types.NewError(types.InputError, "DecodeCatalogEntryType",
			fmt.Errorf("entry slot too small: got %d bytes, need at least 4", len(entry)))
	}
	return types.CatalogEntryType(binary.LittleEndian.Uint32(entry[0:4])), nil
}

// DecodeStoreInformation decodes a type 0x02 catalog entry body (the bytes
// following the 4-byte type discriminant).
func DecodeStoreInformation(body []byte) (*types.StoreInformationT, error) {
	const need = 16 + 8 + 4
	if len(body) < need {
		return nil, types.NewError(types.InputError, "DecodeStoreInformation",
			fmt.Errorf("entry body too small: got %d bytes, need at least %d", len(body), need))
	}

	info := &types.StoreInformationT{}
	copy(info.StoreID[:], body[0:16])
	info.CreationTime = types.FileTime(binary.LittleEndian.Uint64(body[16:24]))
	info.SequenceNumber = binary.LittleEndian.Uint32(body[24:28])
	return info, nil
}

// DecodeStoreDescriptor decodes a type 0x03 catalog entry body (the bytes
// following the 4-byte type discriminant).
func DecodeStoreDescriptor(body []byte) (*types.StoreDescriptorT, error) {
	const need = 16 + 8 + 8 + 8 + 8
	if len(body) < need {
		return nil, types.NewError(types.InputError, "DecodeStoreDescriptor",
			fmt.Errorf("entry body too small: got %d bytes, need at least %d", len(body), need))
	}

	d := &types.StoreDescriptorT{}
	copy(d.StoreID[:], body[0:16])
	d.StoreHeaderOffset = binary.LittleEndian.Uint64(body[16:24])
	d.BlockListOffset = binary.LittleEndian.Uint64(body[24:32])
	d.BitmapOffset = binary.LittleEndian.Uint64(body[32:40])
	d.PreviousBitmapOffset = binary.LittleEndian.Uint64(body[40:48])
	return d, nil
}
