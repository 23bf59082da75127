package fat32

import (
	"encoding/binary"
	"fmt"

	"github.com/arlojade/fat32recover/internal/disk"
)

const bootSectorSize = 512

// Geometry is the set of volume constants derived once from the boot
// sector. It is immutable after construction and is passed by pointer
// into every downstream component (the FAT reader, the data-region
// reader, the scanner and the salvager) instead of living in
// package-level mutable state.
type Geometry struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	FATCount          uint8
	FATSizeSectors    uint32
	TotalSectors      uint32

	ClusterSize   uint32
	DataStartByte int64
	FATStartByte  int64
	TotalClusters uint32
}

// DecodeBootSector reads the first 512 bytes of reader and derives a
// Geometry from the BPB fields at the offsets in spec.md §4.A. It fails
// with ErrInvalidBootSignature if bytes [510:512] are not 0x55 0xAA.
func DecodeBootSector(reader *disk.Reader) (*Geometry, error) {
	buf := make([]byte, bootSectorSize)
	if _, err := reader.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("%w: reading boot sector: %v", ErrDeviceIO, err)
	}

	if buf[510] != 0x55 || buf[511] != 0xAA {
		return nil, fmt.Errorf("%w: got %02x %02x at offset 510", ErrInvalidBootSignature, buf[510], buf[511])
	}

	g := &Geometry{
		BytesPerSector:    binary.LittleEndian.Uint16(buf[11:13]),
		SectorsPerCluster: buf[13],
		ReservedSectors:   binary.LittleEndian.Uint16(buf[14:16]),
		FATCount:          buf[16],
		TotalSectors:      binary.LittleEndian.Uint32(buf[32:36]),
		FATSizeSectors:    binary.LittleEndian.Uint32(buf[36:40]),
	}

	g.ClusterSize = uint32(g.SectorsPerCluster) * uint32(g.BytesPerSector)
	g.FATStartByte = int64(g.ReservedSectors) * int64(g.BytesPerSector)
	g.DataStartByte = (int64(g.ReservedSectors) + int64(g.FATCount)*int64(g.FATSizeSectors)) * int64(g.BytesPerSector)

	totalBytes := int64(g.TotalSectors) * int64(g.BytesPerSector)
	if g.ClusterSize > 0 {
		g.TotalClusters = uint32((totalBytes - g.DataStartByte) / int64(g.ClusterSize))
	}

	return g, nil
}

// ClusterToOffset returns the absolute device byte offset of the start
// of the given data-region cluster. Cluster 2 is the first data
// cluster (spec.md §3).
func (g *Geometry) ClusterToOffset(cluster uint32) int64 {
	return g.DataStartByte + int64(cluster-2)*int64(g.ClusterSize)
}
