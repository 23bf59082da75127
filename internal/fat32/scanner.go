package fat32

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/arlojade/fat32recover/internal/disk"
	"github.com/arlojade/fat32recover/internal/legacyenc"
)

// scanBufferSize matches the teacher's disk.DefaultBufSize convention
// for sequential reads of large devices.
const scanBufferSize = disk.DefaultBufSize

// Scan streams 32-byte directory-entry records from geometry's
// DataStartByte to the end of the device (spec.md §4.D — a flat linear
// scan, not a recursive directory-tree walk: chain links may be gone
// for deleted entries, so the only reliable way to find candidates is
// to look at every record in the data region). targetExtensions must
// already be upper-cased three-letter extensions (without the dot).
//
// ctx is checked between records so a SIGINT-driven cancellation
// (cmd/fat32recover) stops the scan and returns whatever candidates
// were already found, rather than leaving the caller with nothing.
func Scan(ctx context.Context, reader *disk.Reader, geometry *Geometry, targetExtensions map[string]bool) ([]DirEntry, error) {
	section := io.NewSectionReader(reader, geometry.DataStartByte, reader.Size()-geometry.DataStartByte)
	buffered := bufio.NewReaderSize(section, scanBufferSize)

	var entries []DirEntry
	lfn := newLFNAssembler()

	record := make([]byte, dirEntrySize)
	offset := geometry.DataStartByte

	for {
		if err := ctx.Err(); err != nil {
			return entries, err
		}

		n, err := io.ReadFull(buffered, record)
		if n < dirEntrySize {
			// End of device, or a trailing partial record: stop
			// scanning (spec.md §4.D).
			break
		}
		if err != nil && err != io.EOF {
			return entries, fmt.Errorf("%w: %v", ErrDeviceIO, err)
		}
		offset += dirEntrySize

		attribute := record[11]

		// 1. LFN slice.
		if attribute&0x0F == AttrLFN {
			lfn.Push(parseLFNSlice(record))
			continue
		}

		// 2. Empty terminator: discard any in-progress LFN run.
		if attribute == 0x00 {
			lfn.Reset()
			continue
		}

		// 3. Valid SFN candidate (file/dir/volume-label attribute bits set).
		if attribute&(AttrVolumeLabel|AttrDirectory|AttrArchive) == 0 {
			lfn.Reset()
			continue
		}

		entry, ok := decodeSFNRecord(record, offset, geometry, lfn)
		lfn.Reset()
		if !ok {
			continue
		}

		if !isCandidate(entry.Kind, entry.Size, entry.ShortExtension, entry.Filename, targetExtensions, entry.StartCluster, geometry.TotalClusters) {
			continue
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// decodeSFNRecord decodes the fixed-offset SFN fields of a 32-byte
// record (spec.md §4.D) and resolves any pending LFN run into the
// final filename.
func decodeSFNRecord(record []byte, byteOffsetAfterRecord int64, geometry *Geometry, lfn *lfnAssembler) (DirEntry, bool) {
	nameBytes := make([]byte, 8)
	copy(nameBytes, record[0:8])

	deleted := nameBytes[0] == deletedMarker
	if deleted {
		nameBytes[0] = '!'
	}

	shortName := legacyenc.DecodeSFN(nameBytes)
	shortExt := legacyenc.DecodeSFN(record[8:11])

	attribute := record[11]

	// The "valid SFN" gate above only checks that one of the volume-label
	// /directory/archive bits is set; classification itself is an exact
	// equality test on the top nibble (spec.md: regular file iff
	// (attribute_byte>>4)==0x2, directory iff ==0x1). A record whose
	// nibble matches neither — e.g. 0x30, directory and archive bits both
	// set — is rejected outright rather than guessed at with an OR-mask.
	var kind EntryKind
	switch attribute >> 4 {
	case 0x1:
		kind = KindDirectory
	case 0x2:
		kind = KindFile
	default:
		return DirEntry{}, false
	}

	startCluster := uint32(record[26]) | uint32(record[27])<<8 |
		(uint32(record[20])|uint32(record[21])<<8)<<16
	startCluster &= 0x0FFFFFFF

	size := uint32(record[28]) | uint32(record[29])<<8 | uint32(record[30])<<16 | uint32(record[31])<<24

	timeWord := uint16(record[22]) | uint16(record[23])<<8
	dateWord := uint16(record[24]) | uint16(record[25])<<8
	mtime, err := DecodeTimestamp(dateWord, timeWord)
	if err != nil {
		return DirEntry{}, false
	}

	filename := shortName
	if shortExt != "" {
		filename = shortName + "." + shortExt
	}

	if resolved, ok := lfn.Resolve(); ok {
		filename = resolved
	}

	containingCluster := uint32((byteOffsetAfterRecord-geometry.DataStartByte)/int64(geometry.ClusterSize)) + 2

	return DirEntry{
		ByteOffset:        byteOffsetAfterRecord,
		ContainingCluster: containingCluster,
		Filename:          filename,
		ShortExtension:    strings.ToUpper(shortExt),
		Size:              size,
		AttributeByte:     attribute,
		Kind:              kind,
		StartCluster:      startCluster,
		MTime:             mtime,
		Deleted:           deleted,
	}, true
}
