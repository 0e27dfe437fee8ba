package main

import (
	"fmt"
	"os"

	"github.com/deploymenttheory/go-vss/internal/parsers"
	"github.com/deploymenttheory/go-vss/internal/types"
	"github.com/spf13/cobra"
)

var (
	dumpStructKind   string
	dumpStructOffset int64
)

var dumpStructCmd = &cobra.Command{
	Use:   "dump-struct [image-path]",
	Short: "Decode and print one raw VSS record at a given offset",
	Long: `Decode a single record directly with internal/parsers, without
opening a Volume or walking any chain — a vshadowdebug-style structure
dump for diagnosing a record in isolation.

--kind selects which decoder to apply: header, catalog, blocklist,
bitmap, storeheader, or blockrange.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDumpStruct(args[0])
	},
}

func init() {
	rootCmd.AddCommand(dumpStructCmd)
	dumpStructCmd.Flags().Int64Var(&dumpStructOffset, "offset", types.VolumeHeaderOffset, "absolute byte offset of the record (relative to --volume-offset)")
	dumpStructCmd.Flags().StringVar(&dumpStructKind, "kind", "header", "record kind: header, catalog, blocklist, bitmap, storeheader, blockrange")
}

func runDumpStruct(imagePath string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", imagePath, err)
	}
	defer f.Close()

	block := make([]byte, types.BlockSize)
	n, err := f.ReadAt(block, volumeOffset+dumpStructOffset)
	if err != nil && n < len(block) {
		return fmt.Errorf("reading record at 0x%x: %w", dumpStructOffset, err)
	}

	absolute := uint64(dumpStructOffset)

	switch dumpStructKind {
	case "header":
		h, err := parsers.DecodeVolumeHeader(block, absolute)
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", *h)

	case "catalog":
		h, err := parsers.DecodeCatalogBlockHeader(block, absolute)
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", *h)

	case "blocklist":
		h, err := parsers.DecodeBlockListBlockHeader(block, absolute)
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", *h)
		descriptors, err := parsers.DecodeBlockDescriptors(block[128:])
		if err != nil {
			return err
		}
		for _, d := range descriptors {
			fmt.Printf("  %+v\n", *d)
		}

	case "bitmap":
		h, err := parsers.DecodeStoreBitmapBlockHeader(block, absolute)
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", *h)

	case "storeheader":
		h, err := parsers.DecodeStoreHeader(block, absolute)
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", *h)

	case "blockrange":
		h, err := parsers.DecodeBlockRangeBlockHeader(block, absolute)
		if err != nil {
			return err
		}
		fmt.Printf("%+v\n", *h)
		for _, r := range parsers.DecodeBlockRanges(block[128:]) {
			fmt.Printf("  %+v\n", *r)
		}

	default:
		return fmt.Errorf("unknown --kind %q", dumpStructKind)
	}

	return nil
}
