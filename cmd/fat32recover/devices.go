package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arlojade/fat32recover/internal/device"
)

func devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List candidate block devices for --target-drive",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := device.List()
			if err != nil {
				return err
			}

			if len(devices) == 0 {
				fmt.Println("No block devices found.")
				return nil
			}

			for _, d := range devices {
				fat32Flag := ""
				if d.IsFAT32 {
					fat32Flag = "FAT32"
				}
				fmt.Printf("%-20s %-10s %-8s %-6s %s\n", d.Path, d.SizeHuman, d.Filesystem, fat32Flag, d.Name)
			}
			return nil
		},
	}
}
