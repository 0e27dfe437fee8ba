package types

// SourceKind discriminates a ResolvedSource's interpretation. Go has no
// sum types, so ResolvedSource is a tagged struct: exactly one of its
// payload fields is meaningful, selected by Kind.
type SourceKind int

const (
	// SourceNone is the zero value: no primary descriptor exists for this
	// offset in this store's tree. Resolution must fall through to the
	// next newer store (or, if this is the newest store, to the live
	// volume) to find the base bytes, then layer any of this store's own
	// overlays on top of them.
	SourceNone SourceKind = iota
	// SourceInPlace means the bytes should be read from the live volume
	// at ImageOffset, which equals the original offset itself.
	SourceInPlace
	// SourceCopied means the bytes were preserved at ImageOffset in the
	// VSS region at the moment of the snapshot.
	SourceCopied
	// SourceForwarded means resolution must continue against another
	// store, identified by ForwardedTo.
	SourceForwarded
	// SourceZero means the containing block is outside this store's
	// bitmap-addressable space and reads as zero without touching the
	// image.
	SourceZero
)

// ResolvedSource is a fully resolved block descriptor: where the bytes for
// one original-volume offset currently live.
type ResolvedSource struct {
	Kind SourceKind

	// ImageOffset is valid when Kind == SourceCopied or SourceInPlace: the
	// absolute byte offset in the backing image.
	ImageOffset uint64

	// ForwardedTo is valid when Kind == SourceForwarded: the sequence
	// index of the store to resolve against next.
	ForwardedTo int
}

// Overlay describes one overlay layered on top of a block's primary
// descriptor, covering a subset of its 16 sub-blocks.
type Overlay struct {
	// ImageOffset is the absolute byte offset in the backing image of
	// sub-block 0 of this overlay; sub-block i is at
	// ImageOffset + i*SubBlockSize.
	ImageOffset uint64

	// Bitmap marks which of the 16 sub-blocks this overlay covers. Bit i
	// set means sub-block i is live in this overlay.
	Bitmap uint32
}

// SubBlockSource is the resolved source for one 1024-byte sub-block,
// produced by the snapshot resolver for the read engine to coalesce and
// dispatch.
type SubBlockSource struct {
	ResolvedSource
}
