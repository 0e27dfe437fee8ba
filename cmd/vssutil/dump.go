package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dumpStoreIndex int
	dumpOffset     int64
	dumpLength     int
	dumpOutPath    string
)

var dumpCmd = &cobra.Command{
	Use:   "dump [image-path]",
	Short: "Read bytes from a store at a given logical offset",
	Long: `Read length bytes from the store at --store, starting at logical
offset --offset, and write them to --out (or stdout if --out is omitted).
The bytes returned reflect the volume's state at the moment that shadow
copy was taken, reconstructed by walking its block tree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDump(args[0])
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().IntVar(&dumpStoreIndex, "store", 0, "0-based sequence-ordered store index")
	dumpCmd.Flags().Int64Var(&dumpOffset, "offset", 0, "logical byte offset to read from")
	dumpCmd.Flags().IntVar(&dumpLength, "length", 4096, "number of bytes to read")
	dumpCmd.Flags().StringVar(&dumpOutPath, "out", "", "output file path (default: stdout)")
}

func runDump(imagePath string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", imagePath, err)
	}
	defer f.Close()

	v, err := openVolume(f)
	if err != nil {
		return err
	}
	defer v.Close()

	store, err := v.Store(dumpStoreIndex)
	if err != nil {
		return err
	}

	buf := make([]byte, dumpLength)
	n, err := store.ReadAt(buf, dumpOffset)
	if err != nil {
		return err
	}

	out := os.Stdout
	if dumpOutPath != "" {
		out, err = os.Create(dumpOutPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", dumpOutPath, err)
		}
		defer out.Close()
	}

	_, err = out.Write(buf[:n])
	return err
}
