package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listStoresCmd = &cobra.Command{
	Use:   "list-stores [image-path]",
	Short: "List every shadow copy's identity, sequence, and size",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListStores(args[0])
	},
}

func init() {
	rootCmd.AddCommand(listStoresCmd)
}

func runListStores(imagePath string) error {
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

	summaries, err := v.Stores()
	if err != nil {
		return err
	}

	fmt.Printf("%-5s %-38s %-12s %-10s %s\n", "INDEX", "IDENTIFIER", "SEQUENCE", "CREATED", "SIZE")
	for _, s := range summaries {
		fmt.Printf("%-5d %-38s %-12d %-10s %s\n",
			s.Index, s.Identifier.String(), s.SequenceNumber, s.CreationTime.Time().Format("2006-01-02"),
			humanize.Bytes(s.Size))
	}
	return nil
}
