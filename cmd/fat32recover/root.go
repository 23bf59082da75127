package main

import (
	"github.com/spf13/cobra"
)

const defaultStorePath = "fat32_scan_results.csv"

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fat32recover",
		Short: "Recover deleted files from a FAT32 volume",
		Long: `fat32recover parses a FAT32 volume's directory-entry stream directly,
reconstructs full paths for deleted (and live) candidate records, and
salvages their cluster-chain payloads on request.

The device is never written to. A scan produces a row-oriented store
that the operator edits (by hand or with "review") before "restore"
actually writes anything to disk.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(scanCmd())
	cmd.AddCommand(restoreCmd())
	cmd.AddCommand(reviewCmd())
	cmd.AddCommand(devicesCmd())

	return cmd
}
