package fat32

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BuildChain walks the FAT from startCluster, appending successors
// until the accumulated size covers the file (spec.md §4.F step 2):
// chain length is ceil(size / ClusterSize). If the FAT reports
// end-of-chain/bad-cluster before the expected length is reached, the
// partial chain is returned along with ErrChainTruncated so the caller
// can still salvage what's there (spec.md §4.F step 3 / §7).
func BuildChain(startCluster uint32, size uint32, geometry *Geometry, fat *FATReader) ([]uint32, error) {
	chain := []uint32{startCluster}
	if geometry.ClusterSize == 0 {
		return chain, nil
	}

	remaining := int64(size) - int64(geometry.ClusterSize)
	current := startCluster

	for remaining > 0 {
		next, err := fat.NextCluster(current)
		if err != nil {
			return chain, err
		}
		if IsEndOfChain(next) {
			return chain, fmt.Errorf("%w: chain for start cluster %d ended after %d of the required clusters", ErrChainTruncated, startCluster, len(chain))
		}
		chain = append(chain, next)
		current = next
		remaining -= int64(geometry.ClusterSize)
	}

	return chain, nil
}

// SalvageFile reconstructs a candidate file's payload by walking its
// cluster chain and writes it to outputRoot joined with the entry's
// reconstructed path and filename (spec.md §4.F / §6). It returns the
// output path together with an error wrapping ErrChainTruncated if the
// chain ended early (the partial payload is still written); the caller
// should treat that as a warning, not a fatal error for the batch.
func SalvageFile(entry DirEntry, outputRoot string, geometry *Geometry, fat *FATReader, data *DataReader) (string, error) {
	relPath := filepath.Join(filepath.FromSlash(strings.ReplaceAll(entry.Path, PathSeparator, "/")), entry.Filename)
	outputPath := filepath.Join(outputRoot, relPath)

	if entry.Kind == KindDirectory {
		return outputPath, os.MkdirAll(outputPath, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return outputPath, err
	}

	chain, chainErr := BuildChain(entry.StartCluster, entry.Size, geometry, fat)

	out, err := os.Create(outputPath)
	if err != nil {
		return outputPath, err
	}
	defer out.Close()

	remaining := entry.Size
	for _, cluster := range chain {
		if remaining == 0 {
			break
		}
		readLen := geometry.ClusterSize
		if uint32(readLen) > remaining {
			readLen = remaining
		}

		payload, err := data.ReadClusterBytes(cluster, int(readLen))
		if err != nil {
			return outputPath, err
		}
		if _, err := out.Write(payload); err != nil {
			return outputPath, err
		}
		remaining -= uint32(len(payload))
	}

	if !entry.MTime.IsZero() {
		if err := os.Chtimes(outputPath, entry.MTime, entry.MTime); err != nil {
			return outputPath, err
		}
	}

	return outputPath, chainErr
}
