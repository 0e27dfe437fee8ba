package main

import (
	"fmt"
	"os"

	"github.com/deploymenttheory/go-vss/pkg/vss"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [image-path]",
	Short: `Fast "is this a VSS region" signature probe`,
	Long: `Reads only the volume-header offset and reports whether the VSS
signature is present, without opening the volume or scanning its catalog —
the same cheap pre-check vshadowmount.c runs before attempting a full
mount.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(args[0])
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(imagePath string) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", imagePath, err)
	}
	defer f.Close()

	ok, err := vss.CheckSignature(f, volumeOffset)
	if err != nil {
		return err
	}

	if ok {
		fmt.Println("VSS signature found")
		return nil
	}

	fmt.Println("no VSS signature")
	os.Exit(1)
	return nil
}
