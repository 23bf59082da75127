package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arlojade/fat32recover/internal/device"
	"github.com/arlojade/fat32recover/internal/disk"
	"github.com/arlojade/fat32recover/internal/recovery"
	"github.com/arlojade/fat32recover/internal/store"
)

func scanCmd() *cobra.Command {
	var (
		targetDrive string
		extensions  []string
		storePath   string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Stream a FAT32 volume's directory entries into a scan-result store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			devicePath, err := device.ResolveDrive(targetDrive)
			if err != nil {
				return err
			}

			reader, err := disk.Open(devicePath)
			if err != nil {
				return err
			}
			defer reader.Close()

			upperExt := make([]string, len(extensions))
			for i, ext := range extensions {
				upperExt[i] = strings.ToUpper(strings.TrimPrefix(ext, "."))
			}

			result, err := recovery.Scan(ctx, reader, upperExt)
			if err != nil && result == nil {
				return err
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "scan interrupted: %v (keeping %d records found so far)\n", err, result.Count)
			}

			if saveErr := (store.CSVStore{}).Save(storePath, result.Records); saveErr != nil {
				return saveErr
			}

			fmt.Printf("Found %d candidate record(s). Wrote %s\n", result.Count, storePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetDrive, "target-drive", "", "drive letter of the device to scan (required)")
	cmd.Flags().StringSliceVar(&extensions, "extensions", nil, "three-letter file extensions to keep, e.g. --extensions pdf,doc")
	cmd.Flags().StringVar(&storePath, "store", defaultStorePath, "path to write the scan-result store")
	cmd.MarkFlagRequired("target-drive")

	return cmd
}
