// Command fat32recover is the CLI front end for the FAT32 deleted-file
// recovery pipeline: scan a volume for candidate records, review and
// flag them for restore, then salvage the flagged files' payloads.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
