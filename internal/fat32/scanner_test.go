package fat32

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/arlojade/fat32recover/internal/disk"
)

// makeSFNRecord builds a raw 32-byte directory record with the given
// 8.3 name/extension, attribute byte, start cluster, size and DOS
// date/time words.
func makeSFNRecord(name8, ext3 string, attr byte, startCluster, size uint32, dateWord, timeWord uint16) []byte {
	record := make([]byte, dirEntrySize)
	copy(record[0:8], []byte(name8))
	copy(record[8:11], []byte(ext3))
	record[11] = attr
	binary.LittleEndian.PutUint16(record[20:22], uint16(startCluster>>16))
	binary.LittleEndian.PutUint16(record[22:24], timeWord)
	binary.LittleEndian.PutUint16(record[24:26], dateWord)
	binary.LittleEndian.PutUint16(record[26:28], uint16(startCluster))
	binary.LittleEndian.PutUint32(record[28:32], size)
	return record
}

// scenario2DateTime is the date/time pair from spec.md §8 concrete
// scenario 2 (2025-09-05 13:34:00), reused here purely as a fixed,
// known-valid timestamp for records that aren't testing date/time
// decoding themselves.
const (
	scenario2Date = 0x5B25
	scenario2Time = 0x6C40
)

func writeScanImage(t *testing.T, records ...[]byte) *disk.Reader {
	t.Helper()

	var buf []byte
	for _, r := range records {
		buf = append(buf, r...)
	}

	tmpFile := filepath.Join(t.TempDir(), "scan.img")
	if err := os.WriteFile(tmpFile, buf, 0o644); err != nil {
		t.Fatalf("writing scan image: %v", err)
	}

	reader, err := disk.Open(tmpFile)
	if err != nil {
		t.Fatalf("disk.Open: %v", err)
	}
	t.Cleanup(func() { reader.Close() })
	return reader
}

func testGeometry() *Geometry {
	return &Geometry{DataStartByte: 0, ClusterSize: 4096, TotalClusters: 1000}
}

func TestScanFindsCandidateSFN(t *testing.T) {
	record := makeSFNRecord("REPORT  ", "PDF", AttrArchive, 5, 100, scenario2Date, scenario2Time)
	reader := writeScanImage(t, record)

	entries, err := Scan(context.Background(), reader, testGeometry(), map[string]bool{"PDF": true})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Filename != "REPORT.PDF" {
		t.Errorf("Filename = %q, want %q", entries[0].Filename, "REPORT.PDF")
	}
	if entries[0].StartCluster != 5 {
		t.Errorf("StartCluster = %d, want 5", entries[0].StartCluster)
	}
}

// TestScanDeletedEntrySubstitution matches spec.md §8 concrete scenario
// 6: a deleted entry's first name byte (0xE5) is replaced with '!' and
// Deleted is set.
func TestScanDeletedEntrySubstitution(t *testing.T) {
	record := makeSFNRecord("REPORT  ", "PDF", AttrArchive, 5, 100, scenario2Date, scenario2Time)
	record[0] = deletedMarker
	reader := writeScanImage(t, record)

	entries, err := Scan(context.Background(), reader, testGeometry(), map[string]bool{"PDF": true})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if !entries[0].Deleted {
		t.Error("Deleted = false, want true")
	}
	if entries[0].Filename != "!EPORT.PDF" {
		t.Errorf("Filename = %q, want %q", entries[0].Filename, "!EPORT.PDF")
	}
}

// TestScanRejectsAmbiguousAttributeNibble matches spec.md:131's exact
// equality classification: attribute 0x30 (directory bit 0x10 and
// archive bit 0x20 both set, nibble 0x3) passes the broader "valid SFN"
// gate but matches neither the file (0x2) nor directory (0x1) nibble,
// so the record must be rejected entirely rather than guessed at as a
// directory via a bitmask test.
func TestScanRejectsAmbiguousAttributeNibble(t *testing.T) {
	record := makeSFNRecord("DOCS    ", "   ", 0x30, 50, 0, scenario2Date, scenario2Time)
	reader := writeScanImage(t, record)

	entries, err := Scan(context.Background(), reader, testGeometry(), map[string]bool{"PDF": true})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %d, want 0 (ambiguous attribute nibble must be rejected)", len(entries))
	}
}

// TestScanTerminatorClearsPendingLFN verifies that a 0x00 terminator
// record between an LFN slice and an unrelated SFN record discards the
// pending LFN run, so the SFN's own short name is used instead of
// whatever the orphaned LFN slice spelled.
func TestScanTerminatorClearsPendingLFN(t *testing.T) {
	lfnSliceRecord := make([]byte, dirEntrySize)
	lfnSliceRecord[0] = 0x41
	lfnSliceRecord[11] = AttrLFN
	for i := 1; i < 11; i += 2 {
		lfnSliceRecord[i] = 'x'
	}

	terminator := make([]byte, dirEntrySize) // attribute byte (11) left at 0x00

	sfn := makeSFNRecord("REPORT  ", "PDF", AttrArchive, 5, 100, scenario2Date, scenario2Time)

	reader := writeScanImage(t, lfnSliceRecord, terminator, sfn)

	entries, err := Scan(context.Background(), reader, testGeometry(), map[string]bool{"PDF": true})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Filename != "REPORT.PDF" {
		t.Errorf("Filename = %q, want %q (LFN run should have been discarded)", entries[0].Filename, "REPORT.PDF")
	}
}

func TestScanRejectsNonMatchingExtension(t *testing.T) {
	record := makeSFNRecord("REPORT  ", "TXT", AttrArchive, 5, 100, scenario2Date, scenario2Time)
	reader := writeScanImage(t, record)

	entries, err := Scan(context.Background(), reader, testGeometry(), map[string]bool{"PDF": true})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %d, want 0 (extension doesn't match allow-list)", len(entries))
	}
}

func TestScanIncludesDirectoriesRegardlessOfExtensionFilter(t *testing.T) {
	record := makeSFNRecord("DOCS    ", "   ", AttrDirectory, 50, 0, scenario2Date, scenario2Time)
	reader := writeScanImage(t, record)

	entries, err := Scan(context.Background(), reader, testGeometry(), map[string]bool{"PDF": true})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Kind != KindDirectory {
		t.Errorf("Kind = %v, want KindDirectory", entries[0].Kind)
	}
}

func TestScanStopsOnCancellation(t *testing.T) {
	record := makeSFNRecord("REPORT  ", "PDF", AttrArchive, 5, 100, scenario2Date, scenario2Time)
	reader := writeScanImage(t, record)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries, err := Scan(ctx, reader, testGeometry(), map[string]bool{"PDF": true})
	if err == nil {
		t.Fatal("expected Scan to return the cancellation error")
	}
	if entries != nil {
		t.Errorf("entries = %v, want nil (cancelled before any record was read)", entries)
	}
}
