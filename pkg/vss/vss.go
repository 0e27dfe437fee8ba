// Package vss is the public entry point for reading Windows NT Volume
// Shadow Snapshots out of a raw NTFS volume image: parse the catalog of
// shadow copies and expose each one as a read-only, seekable virtual block
// device.
package vss

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-vss/internal/interfaces"
	"github.com/deploymenttheory/go-vss/internal/services"
	"github.com/deploymenttheory/go-vss/internal/types"
	"github.com/deploymenttheory/go-vss/pkg/observer"
)

// Volume is an opened VSS region: the catalog of shadow copies found on one
// NTFS volume, each exposed as a Store.
type Volume struct {
	*services.Volume
}

// Store is one shadow copy, readable as a virtual block device reflecting
// the volume's state at the moment the snapshot was taken.
type Store = services.Store

// StoreSummary is a one-shot, allocation-free snapshot of a store's
// identity, grouped for listing UIs (cmd/vssutil list-stores), grounded on
// vshadowtools/mount_handle.h's per-store enumeration pair
// (mount_handle_get_number_of_shadow_snapshots /
// mount_handle_get_shadow_snapshot_identifier).
type StoreSummary struct {
	Index          int
	Identifier     types.GUID
	CreationTime   types.FileTime
	SequenceNumber uint32
	Size           uint64
}

// Options holds every Open configuration knob assembled from the supplied
// Option values.
type Options struct {
	observer   interfaces.Observer
	volumeSize uint64
}

// Option configures Open.
type Option func(*Options)

// WithObserver injects a per-Volume notification sink in place of a
// process-wide verbosity flag or notification global. If omitted, Open
// uses a no-op observer.
func WithObserver(obs interfaces.Observer) Option {
	return func(o *Options) {
		o.observer = obs
	}
}

// WithVolumeSize supplies the live NTFS volume's size in bytes. VSS stores
// carry no size field of their own (DESIGN.md); every store's bitmap and
// read bounds are sized against this value. Parsing it from the NTFS boot
// sector is explicitly out of scope, so callers that don't already know
// the volume's size must supply it here — without it, Open returns an
// ArgumentError.
func WithVolumeSize(size uint64) Option {
	return func(o *Options) {
		o.volumeSize = size
	}
}

// Open validates the volume header at volumeOffset, scans the catalog, and
// returns a Volume exposing every store found. volumeOffset lets a VSS
// region be located inside a partitioned disk image; pass 0 for a raw
// single-volume image.
func Open(reader io.ReaderAt, volumeOffset int64, opts ...Option) (*Volume, error) {
	options := Options{observer: observer.NoOp()}
	for _, opt := range opts {
		opt(&options)
	}

	if options.volumeSize == 0 {
		return nil, types.NewError(types.ArgumentError, "vss.Open",
			fmt.Errorf("volume size is required: pass vss.WithVolumeSize"))
	}

	v, err := services.Open(reader, volumeOffset, options.volumeSize, options.observer)
	if err != nil {
		return nil, err
	}
	return &Volume{Volume: v}, nil
}

// CheckSignature reads the volume-header offset and reports whether the VSS
// signature is present, without opening the volume.
func CheckSignature(reader io.ReaderAt, volumeOffset int64) (bool, error) {
	return services.CheckSignature(reader, volumeOffset)
}

// Stores returns a summary of every store on the volume, in sequence order.
func (v *Volume) Stores() ([]StoreSummary, error) {
	out := make([]StoreSummary, v.StoreCount())
	for i := range out {
		s, err := v.Store(i)
		if err != nil {
			return nil, err
		}
		out[i] = StoreSummary{
			Index:          s.Index(),
			Identifier:     s.Identifier(),
			CreationTime:   s.CreationTime(),
			SequenceNumber: s.SequenceNumber(),
			Size:           s.Size(),
		}
	}
	return out, nil
}
