// Package catalog walks the linked chain of catalog blocks starting at the
// volume header and enumerates all stores present on a VSS volume.
package catalog

import (
	"fmt"
	"sort"

	"github.com/deploymenttheory/go-vss/internal/interfaces"
	"github.com/deploymenttheory/go-vss/internal/parsers"
	"github.com/deploymenttheory/go-vss/internal/types"
)

// Entry pairs a store's identity record with its metadata-chain
// descriptor, as produced by one catalog scan.
type Entry struct {
	Info       types.StoreInformationT
	Descriptor types.StoreDescriptorT
}

// AbortFunc is polled between catalog hops so a long-running scan can be
// cancelled cooperatively.
type AbortFunc func() bool

// Scan walks the catalog chain starting at header.CatalogOffset and
// returns every (StoreInformation, StoreDescriptor) pair found, sorted by
// SequenceNumber ascending. The caller assigns the resulting slice indices
// as 0-based store indices.
func Scan(br interfaces.ByteReader, header types.VolumeHeaderT, obs interfaces.Observer, abort AbortFunc) ([]Entry, error) {
	var entries []Entry

	// pending holds the most recently seen StoreInformation per GUID; the
	// last one wins on duplicate GUIDs.
	pending := make(map[types.GUID]types.StoreInformationT)

	addr := header.CatalogOffset
	for addr != 0 {
		if abort != nil && abort() {
			return nil, types.NewError(types.RuntimeError, "catalog.Scan", fmt.Errorf("abort requested"))
		}

		block := make([]byte, types.BlockSize)
		n, err := br.ReadAt(addr, block)
		if err != nil {
			return nil, types.NewError(types.IoError, "catalog.Scan", err)
		}
		if n < types.BlockSize {
			return nil, types.NewError(types.IoError, "catalog.Scan",
				fmt.Errorf("short read of catalog block at 0x%x: got %d bytes", addr, n))
		}

		blockHeader, err := parsers.DecodeCatalogBlockHeader(block, addr)
		if err != nil {
			return nil, err
		}

	entries:
		for i := 0; i < types.CatalogEntriesPerBlock; i++ {
			slotStart := types.CatalogEntrySize * (i + 1)
			slot := block[slotStart : slotStart+types.CatalogEntrySize]

			entryType, err := parsers.DecodeCatalogEntryType(slot)
			if err != nil {
				return nil, err
			}

			switch entryType {
			case types.CatalogEntryEmpty:
				// Terminates iteration of this block's entries.
				break entries

			case types.CatalogEntryEmptySlot:
				continue

			case types.CatalogEntryStoreInformation:
				info, err := parsers.DecodeStoreInformation(slot[4:])
				if err != nil {
					return nil, err
				}
				pending[info.StoreID] = *info

			case types.CatalogEntryStoreDescriptor:
				desc, err := parsers.DecodeStoreDescriptor(slot[4:])
				if err != nil {
					return nil, err
				}
				info, ok := pending[desc.StoreID]
				if !ok {
					return nil, types.NewError(types.InputError, "catalog.Scan",
						fmt.Errorf("store descriptor for %s has no preceding store information entry", desc.StoreID))
				}
				entries = append(entries, Entry{Info: info, Descriptor: *desc})

			default:
				if obs != nil {
					obs.Warnf("catalog.Scan: unknown catalog entry type %d at 0x%x, skipping", entryType, addr+uint64(slotStart))
				}
			}
		}

		addr = blockHeader.NextOffset
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Info.SequenceNumber < entries[j].Info.SequenceNumber
	})

	return entries, nil
}
