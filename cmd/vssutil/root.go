package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags shared by every subcommand.
	verbose      bool
	quiet        bool
	outputFormat string

	// Every subcommand that opens a Volume needs these two.
	volumeOffset int64
	volumeSize   uint64
)

var rootCmd = &cobra.Command{
	Use:   "vssutil",
	Short: "Read-only explorer for Windows NT Volume Shadow Snapshots",
	Long: `vssutil is a read-only command-line tool for inspecting Volume Shadow
Snapshots (VSS) inside a raw NTFS volume image, without Windows or the
Volume Shadow Copy service.

Works directly against a raw disk image or partition; never mounts
anything and never writes to the image.

Commands:
  info         Print volume size and store-count summary
  list-stores  List every shadow copy's identity and size
  dump         Read bytes from a store at a given offset
  check        Fast "is this a VSS region" signature probe
  dump-struct  Decode and print one raw record at a given offset`,
	Version: "0.1.0-dev",
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (parsed; no subcommand reads it)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (parsed; no subcommand reads it)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (parsed; every subcommand prints plain text)")
	rootCmd.PersistentFlags().Int64Var(&volumeOffset, "volume-offset", 0, "byte offset of the VSS region within the image (0 for a raw single-volume image)")
	rootCmd.PersistentFlags().Uint64Var(&volumeSize, "volume-size", 0, "live NTFS volume size in bytes (required; VSS stores no size field of their own)")
}
