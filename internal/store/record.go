// Package store implements the "external tabular store" collaborator
// from spec.md §4.G / §6: a row-oriented artifact with a header and one
// row per candidate record, holding a user-editable restore flag. The
// column list and order are taken verbatim from spec.md §6.
package store

import (
	"fmt"
	"time"

	"github.com/arlojade/fat32recover/internal/fat32"
)

// timeLayout matches spec.md §6 column 7: "YYYY-MM-DD HH:MM:SS".
const timeLayout = "2006-01-02 15:04:05"

// Record is one row of the scan-result store, columns 0-15 of
// spec.md §6. Struct tags drive the CSV marshaling in csvstore.go.
type Record struct {
	Restore           int    `csv:"restore"`            // col 0: 1 = restore, else skip
	ByteOffset        int64  `csv:"byte_offset"`         // col 1
	ContainingCluster uint32 `csv:"containing_cluster"`  // col 2
	Filename          string `csv:"filename"`            // col 3
	FileType          string `csv:"file_type"`           // col 4
	Size              uint32 `csv:"size_bytes"`          // col 5
	Attribute         string `csv:"attribute"`           // col 6: hex string
	MTime             string `csv:"mtime"`               // col 7: "YYYY-MM-DD HH:MM:SS"
	StartCluster      uint32 `csv:"start_cluster"`       // col 8
	DeletedFlag       string `csv:"deleted_flag"`        // col 9: "!" or ""
	Path              string `csv:"path"`                // col 10

	ReservedSectors uint16 `csv:"reserved_sectors"` // col 11
	BytesPerSector  uint16 `csv:"bytes_per_sector"` // col 12
	FATSizeSectors  uint32 `csv:"fat_size_sectors"` // col 13
	ClusterSize     uint32 `csv:"cluster_size"`     // col 14
	DataStartByte   int64  `csv:"data_start_byte"`  // col 15
}

// FromDirEntry converts a scanned fat32.DirEntry plus the geometry it
// was found under into a store Record, replicating the geometry
// columns per row so restore mode never needs to re-read the boot
// sector (spec.md §6).
func FromDirEntry(entry fat32.DirEntry, geometry *fat32.Geometry) Record {
	deletedFlag := ""
	if entry.Deleted {
		deletedFlag = "!"
	}

	return Record{
		Restore:           0,
		ByteOffset:        entry.ByteOffset,
		ContainingCluster: entry.ContainingCluster,
		Filename:          entry.Filename,
		FileType:          entry.ShortExtension,
		Size:              entry.Size,
		Attribute:         fmt.Sprintf("0x%x", entry.AttributeByte),
		MTime:             entry.MTime.Format(timeLayout),
		StartCluster:      entry.StartCluster,
		DeletedFlag:       deletedFlag,
		Path:              entry.Path,

		ReservedSectors: geometry.ReservedSectors,
		BytesPerSector:  geometry.BytesPerSector,
		FATSizeSectors:  geometry.FATSizeSectors,
		ClusterSize:     geometry.ClusterSize,
		DataStartByte:   geometry.DataStartByte,
	}
}

// ToDirEntry reconstructs the fat32.DirEntry fields needed to salvage
// this row's file (spec.md §4.F restore mode never re-parses the
// directory-entry record, only the store row).
func (r Record) ToDirEntry() (fat32.DirEntry, error) {
	mtime, err := time.Parse(timeLayout, r.MTime)
	if err != nil {
		return fat32.DirEntry{}, fmt.Errorf("store: parsing mtime %q: %w", r.MTime, err)
	}

	kind := fat32.KindFile
	if r.Size == 0 {
		kind = fat32.KindDirectory
	}

	return fat32.DirEntry{
		ByteOffset:        r.ByteOffset,
		ContainingCluster: r.ContainingCluster,
		Filename:          r.Filename,
		ShortExtension:    r.FileType,
		Size:              r.Size,
		Kind:              kind,
		StartCluster:      r.StartCluster,
		MTime:             mtime,
		Deleted:           r.DeletedFlag == "!",
		Path:              r.Path,
	}, nil
}

// Geometry reconstructs the minimal fat32.Geometry needed by the FAT
// reader and data-region reader directly from the row's replicated
// geometry columns, so restore mode never touches the device's boot
// sector (spec.md §6 columns 11-15).
func (r Record) Geometry() *fat32.Geometry {
	return &fat32.Geometry{
		ReservedSectors: r.ReservedSectors,
		BytesPerSector:  r.BytesPerSector,
		FATSizeSectors:  r.FATSizeSectors,
		ClusterSize:     r.ClusterSize,
		DataStartByte:   r.DataStartByte,
		FATStartByte:    int64(r.ReservedSectors) * int64(r.BytesPerSector),
	}
}

// WantsRestore reports whether the user flagged this row for restore
// (column 0 == 1, spec.md §6).
func (r Record) WantsRestore() bool {
	return r.Restore == 1
}
