package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/arlojade/fat32recover/internal/device"
	"github.com/arlojade/fat32recover/internal/disk"
	"github.com/arlojade/fat32recover/internal/recovery"
	"github.com/arlojade/fat32recover/internal/store"
)

func restoreCmd() *cobra.Command {
	var (
		targetDrive string
		storePath   string
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Salvage every row flagged for restore in a scan-result store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			csvStore := store.CSVStore{}
			records, err := csvStore.Load(storePath)
			if err != nil {
				return err
			}

			devicePath, err := device.ResolveDrive(targetDrive)
			if err != nil {
				return err
			}

			reader, err := disk.Open(devicePath)
			if err != nil {
				return err
			}
			defer reader.Close()

			outcomes, restoreErr := recovery.RestoreAll(ctx, reader, records, outputDir)

			restored := 0
			for _, o := range outcomes {
				if o.Err == nil {
					restored++
					fmt.Printf("restored: %s\n", o.OutputPath)
				} else {
					fmt.Fprintf(os.Stderr, "partial/failed: %s: %v\n", o.OutputPath, o.Err)
				}
			}

			if saveErr := csvStore.Save(storePath, records); saveErr != nil {
				return saveErr
			}

			fmt.Printf("Restored %d of %d flagged record(s).\n", restored, len(outcomes))
			if restoreErr != nil {
				fmt.Fprintf(os.Stderr, "warnings: %v\n", restoreErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&targetDrive, "target-drive", "", "drive letter of the device to restore from (required)")
	cmd.Flags().StringVar(&storePath, "store", defaultStorePath, "path to the scan-result store")
	cmd.Flags().StringVar(&outputDir, "output", "./recovered", "directory to write restored files under")
	cmd.MarkFlagRequired("target-drive")

	return cmd
}
