package main

import (
	"fmt"
	"os"

	"github.com/deploymenttheory/go-vss/pkg/vss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [image-path]",
	Short: "Print volume size and store-count summary",
	Long: `Open the VSS region in image-path and print the live volume's
addressable size and the number of shadow copies found.

Example:
  vssutil info --volume-size 107374182400 /dev/sda1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(args[0])
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(imagePath string) error {
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

	fmt.Printf("image:       %s\n", imagePath)
	fmt.Printf("volume size: %s (%d bytes)\n", humanize.Bytes(v.Size()), v.Size())
	fmt.Printf("stores:      %d\n", v.StoreCount())
	return nil
}

// openVolume centralizes the WithVolumeSize requirement every subcommand
// that opens a Volume shares.
func openVolume(f *os.File) (*vss.Volume, error) {
	if volumeSize == 0 {
		return nil, fmt.Errorf("--volume-size is required")
	}
	return vss.Open(f, volumeOffset, vss.WithVolumeSize(volumeSize))
}
