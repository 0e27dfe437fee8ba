package types

// Wire structures for the Volume Shadow Snapshot on-disk format.
//
// Record layout reference: SPEC_FULL.md §6.1 / §3. Every record begins with
// a 16-byte signature, except individual catalog entries and block
// descriptors, which are sub-records inside a signed, self-describing
// parent block.

// VolumeHeaderT is the fixed-offset record at region_base + 0x1e00 that
// anchors discovery of the rest of the VSS metadata.
type VolumeHeaderT struct {
	// Signature must equal types.Signature.
	Signature [16]byte

	// RecordType is always RecordTypeVolumeHeader.
	RecordType RecordType

	// CurrentOffset is this record's own absolute offset, used to validate
	// that the region hasn't been relocated relative to the caller's
	// volume_offset.
	CurrentOffset uint64

	// CatalogOffset is the absolute byte offset of the first catalog
	// block.
	CatalogOffset uint64
}

// CatalogBlockHeaderT is the 128-byte header at the start of every
// 16384-byte catalog block.
type CatalogBlockHeaderT struct {
	// Signature must equal types.Signature.
	Signature [16]byte

	// RecordType is always RecordTypeCatalog.
	RecordType RecordType

	// RelativeOffset is this block's own absolute offset; it must equal
	// the position this block was read from.
	RelativeOffset uint64

	// NextOffset is the absolute offset of the next catalog block in the
	// chain, or 0 to terminate the chain.
	NextOffset uint64
}

// CatalogEntryHeaderT is the common 4-byte-aligned discriminant at the
// start of every 128-byte catalog entry slot; the remaining bytes are
// interpreted according to EntryType.
type CatalogEntryHeaderT struct {
	// EntryType discriminates the slot: empty/terminator, empty slot,
	// store information, or store descriptor.
	EntryType CatalogEntryType
}

// StoreInformationT is a type 0x02 catalog entry: identity and ordering
// metadata for one store.
type StoreInformationT struct {
	// StoreID is the store's GUID.
	StoreID GUID

	// CreationTime is the FILETIME at which the snapshot was taken.
	CreationTime FileTime

	// SequenceNumber orders stores chronologically; unique per volume and
	// dense enough to induce a total order across all stores.
	SequenceNumber uint32
}

// StoreDescriptorT is a type 0x03 catalog entry: the absolute offsets of
// one store's three metadata chains.
type StoreDescriptorT struct {
	// StoreID matches a preceding (by catalog scan order) StoreInformationT
	// with the same GUID.
	StoreID GUID

	// StoreHeaderOffset is the absolute offset of the store header.
	StoreHeaderOffset uint64

	// BlockListOffset is the absolute offset of the head of the store's
	// block-list chain.
	BlockListOffset uint64

	// BitmapOffset is the absolute offset of the head of the store's
	// bitmap chain (the primary, "current state" bitmap).
	BitmapOffset uint64

	// PreviousBitmapOffset is the absolute offset of the head of the
	// store's second, "previous state" bitmap chain. Parsed for
	// completeness; not consulted by the read path (see DESIGN.md).
	PreviousBitmapOffset uint64
}

// StoreHeaderT is the record at a store descriptor's StoreHeaderOffset
// (record type 4). Its catalog-entry twin (StoreDescriptorT) carries the
// block-list and bitmap chain heads directly; the standalone store header
// record additionally carries the block-range chain's head offset, which
// has no field of its own in the catalog entry.
type StoreHeaderT struct {
	// Signature must equal types.Signature.
	Signature [16]byte

	// RecordType is always RecordTypeStoreDescriptor (4).
	RecordType RecordType

	// RelativeOffset is this record's own absolute offset.
	RelativeOffset uint64

	// BlockRangeOffset is the absolute offset of the head of the store's
	// block-range chain (record type 5), or 0 if the store has none.
	BlockRangeOffset uint64
}

// BlockListBlockHeaderT is the 128-byte header at the start of every
// store block-list block.
type BlockListBlockHeaderT struct {
	// Signature must equal types.Signature.
	Signature [16]byte

	// RecordType is always RecordTypeStoreBlockList.
	RecordType RecordType

	// RelativeOffset is this block's own absolute offset.
	RelativeOffset uint64

	// NextOffset is the absolute offset of the next block-list block in
	// the chain, or 0 to terminate the chain.
	NextOffset uint64
}

// BlockDescriptorT is one 32-byte entry in a store block-list block's body.
type BlockDescriptorT struct {
	// OriginalOffset is the offset on the live volume this descriptor
	// refers to; always a multiple of BlockSize.
	OriginalOffset uint64

	// RelativeStoreOffset is the offset within the store's own data
	// blocks where the original bytes were preserved; nonzero only for
	// plain copy-on-write descriptors (flags without IS_FORWARDER or
	// IS_OVERLAY).
	RelativeStoreOffset uint32

	// StoreOffset is the absolute offset in the VSS region where
	// forwarded-to or overlaid data lives.
	StoreOffset uint64

	// Flags is the IS_FORWARDER / IS_OVERLAY / NOT_USED bitfield.
	Flags BlockDescriptorFlag

	// AllocationBitmap marks, when IS_OVERLAY is set, which of the 16
	// 1024-byte sub-blocks within this block are live in this snapshot.
	AllocationBitmap uint32
}

// BlockRangeBlockHeaderT is the 128-byte header at the start of every
// store block-range block. Block-range records are parsed and validated
// but never consulted for resolution.
type BlockRangeBlockHeaderT struct {
	// Signature must equal types.Signature.
	Signature [16]byte

	// RecordType is always RecordTypeStoreBlockRange.
	RecordType RecordType

	// RelativeOffset is this block's own absolute offset.
	RelativeOffset uint64

	// NextOffset is the absolute offset of the next block-range block in
	// the chain, or 0 to terminate the chain.
	NextOffset uint64
}

// BlockRangeT is one entry in a store block-range block's body, describing
// a contiguous run of original-volume block numbers covered by the store.
type BlockRangeT struct {
	// StartBlock is the first 16 KiB-aligned block number in the range.
	StartBlock uint64

	// EndBlock is one past the last block number in the range.
	EndBlock uint64
}

// StoreBitmapBlockHeaderT is the 128-byte header at the start of every
// store bitmap block.
type StoreBitmapBlockHeaderT struct {
	// Signature must equal types.Signature.
	Signature [16]byte

	// RecordType is always RecordTypeStoreBitmap.
	RecordType RecordType

	// RelativeOffset is this block's own absolute offset.
	RelativeOffset uint64

	// NextOffset is the absolute offset of the next bitmap block in the
	// chain, or 0 to terminate the chain.
	NextOffset uint64
}
