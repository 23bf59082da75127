// Package recovery wires the FAT32 core (internal/fat32) to the
// external store (internal/store), implementing the two data flows
// from spec.md §2:
//
//	scan mode:    A → D (uses A's geometry) → E → G
//	restore mode: G → F (uses B and C) → filesystem output
package recovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/arlojade/fat32recover/internal/disk"
	"github.com/arlojade/fat32recover/internal/fat32"
	"github.com/arlojade/fat32recover/internal/store"
)

// ScanResult is the outcome of a scan-mode run: the rows ready to be
// written to the store, plus how many candidates were found.
type ScanResult struct {
	Records []store.Record
	Count   int
}

// Scan decodes the boot sector, streams directory entries, reconstructs
// their paths, and projects the result into store rows. extensions
// should already be upper-cased three-letter extensions (spec.md §6).
func Scan(ctx context.Context, reader *disk.Reader, extensions []string) (*ScanResult, error) {
	geometry, err := fat32.DecodeBootSector(reader)
	if err != nil {
		return nil, err
	}

	targetSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		targetSet[ext] = true
	}

	entries, scanErr := fat32.Scan(ctx, reader, geometry, targetSet)
	if scanErr != nil && !errors.Is(scanErr, context.Canceled) {
		return nil, scanErr
	}

	fat32.ResolveAllPaths(entries)

	records := make([]store.Record, len(entries))
	for i, entry := range entries {
		records[i] = store.FromDirEntry(entry, geometry)
	}

	// A cancelled scan (SIGINT) still returns everything found so far
	// (spec.md §5) — scanErr is reported, not swallowed, but it never
	// discards the partial result.
	return &ScanResult{Records: records, Count: len(records)}, scanErr
}

// RestoreOutcome reports what happened to one flagged row.
type RestoreOutcome struct {
	Record     store.Record
	OutputPath string
	Err        error
}

// RestoreAll walks every store row flagged for restore (column 0 == 1),
// salvages its cluster chain from reader, and writes the payload under
// outputRoot. It never re-reads the device's boot sector: each row
// carries its own geometry snapshot (spec.md §6 columns 11-15). A
// single file's failure — including a truncated chain — never stops
// the batch (spec.md §7); truncation warnings are collected and
// returned alongside the per-file outcomes.
//
// On return, every successfully restored row (including a
// partially-recovered truncated one) has had its Restore flag cleared
// to 0 in place, ready for the caller to Store.Save.
func RestoreAll(ctx context.Context, reader *disk.Reader, records []store.Record, outputRoot string) ([]RestoreOutcome, error) {
	var warnings *multierror.Error
	outcomes := make([]RestoreOutcome, 0, len(records))

	for i := range records {
		if err := ctx.Err(); err != nil {
			warnings = multierror.Append(warnings, err)
			break
		}

		rec := &records[i]
		if !rec.WantsRestore() {
			continue
		}

		entry, err := rec.ToDirEntry()
		if err != nil {
			outcomes = append(outcomes, RestoreOutcome{Record: *rec, Err: err})
			continue
		}

		geometry := rec.Geometry()
		fatReader := fat32.NewFATReader(reader, geometry)
		dataReader := fat32.NewDataReader(reader, geometry)

		outputPath, err := fat32.SalvageFile(entry, outputRoot, geometry, fatReader, dataReader)
		outcome := RestoreOutcome{Record: *rec, OutputPath: outputPath, Err: err}
		outcomes = append(outcomes, outcome)

		if err != nil && !isChainTruncated(err) {
			// Hard failure (I/O error, etc): leave the restore flag set
			// so a re-run can retry this file.
			continue
		}

		if err != nil {
			warnings = multierror.Append(warnings, fmt.Errorf("%s: %w", entry.Filename, err))
		}
		rec.Restore = 0
	}

	if warnings != nil {
		return outcomes, warnings.ErrorOrNil()
	}
	return outcomes, nil
}

func isChainTruncated(err error) bool {
	return errors.Is(err, fat32.ErrChainTruncated)
}
