package fat32

import (
	"fmt"

	"github.com/arlojade/fat32recover/internal/disk"
)

// DataReader reads cluster payloads out of the FAT32 data region.
type DataReader struct {
	reader   *disk.Reader
	geometry *Geometry
}

// NewDataReader builds a DataReader over reader using geometry's
// DataStartByte and ClusterSize.
func NewDataReader(reader *disk.Reader, geometry *Geometry) *DataReader {
	return &DataReader{reader: reader, geometry: geometry}
}

// ReadClusterBytes reads exactly length bytes (length <= ClusterSize)
// starting at the given data cluster.
func (d *DataReader) ReadClusterBytes(cluster uint32, length int) ([]byte, error) {
	if cluster < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidClusterNumber, cluster)
	}
	if uint32(length) > d.geometry.ClusterSize {
		length = int(d.geometry.ClusterSize)
	}

	buf := make([]byte, length)
	offset := d.geometry.ClusterToOffset(cluster)
	if _, err := d.reader.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("%w: reading cluster %d: %v", ErrDeviceIO, cluster, err)
	}
	return buf, nil
}
