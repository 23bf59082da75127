package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arlojade/fat32recover/internal/fat32"
	"github.com/gocarina/gocsv"
)

// Store persists and reloads candidate records as a tabular artifact
// with a user-editable restore flag (spec.md §4.G / §6). Concurrent
// invocations against the same store are unsupported (spec.md §5): the
// whole file is loaded into memory, mutated, and rewritten atomically.
type Store interface {
	Load(path string) ([]Record, error)
	Save(path string, records []Record) error
}

// CSVStore backs the store with a row-oriented CSV file via
// github.com/gocarina/gocsv, the tabular marshal library already used
// elsewhere in this dependency pack (dargueta-disko's disk-geometry
// table). There is no XLSX library in this pack safe to depend on, so
// the default store filename is fat32_scan_results.csv rather than the
// spec's fat32_scan_results.xlsx; column semantics are unchanged.
type CSVStore struct{}

// Load reads all rows from path. It returns ErrStoreIO wrapping the
// underlying error if the file is missing or malformed.
func (CSVStore) Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fat32.ErrStoreIO, err)
	}
	defer f.Close()

	var records []Record
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", fat32.ErrStoreIO, err)
	}
	return records, nil
}

// Save atomically rewrites path with records: it marshals to a temp
// file in the same directory, then renames over the original, so a
// crash mid-write never leaves a half-written store behind.
func (CSVStore) Save(path string, records []Record) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".fat32recover-store-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", fat32.ErrStoreIO, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := gocsv.MarshalFile(&records, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", fat32.ErrStoreIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", fat32.ErrStoreIO, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: %v", fat32.ErrStoreIO, err)
	}
	return nil
}
