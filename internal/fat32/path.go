package fat32

// PathSeparator is the FAT-native path separator used when joining
// reconstructed ancestor names. Paths are kept in this form end to end
// (matching spec.md's own worked examples, e.g. `ROOT\docs\report.pdf`)
// and only translated to the host's filepath separator when a restored
// file is actually written to disk (internal/fat32/salvage.go).
const PathSeparator = `\`

// RootMarker prefixes every reconstructed path, whether the entry's
// ancestor chain resolves to cluster 0/2 or walks off the end of a
// broken/orphaned chain.
const RootMarker = "ROOT"

// BuildDirectoryIndex implements pass 1 of spec.md §4.E: a map from a
// directory's StartCluster to the directory record itself, built only
// from non-deleted directory entries. On a collision (FAT32 permits
// directories to share a start cluster only via delete+recreate), the
// first-encountered entry wins.
func BuildDirectoryIndex(entries []DirEntry) map[uint32]*DirEntry {
	index := make(map[uint32]*DirEntry)
	for i := range entries {
		e := &entries[i]
		if e.Kind != KindDirectory || e.Deleted {
			continue
		}
		if _, exists := index[e.StartCluster]; exists {
			continue
		}
		index[e.StartCluster] = e
	}
	return index
}

// ResolvePath implements pass 2 of spec.md §4.E: walk the ancestor
// chain from entry.ContainingCluster through the directory index,
// prepending each ancestor's filename, until the walk reaches the root
// (cluster 0 or 2) or an orphaned/unindexed cluster. A cycle guard
// bounds the walk at directoryCount+1 iterations; exceeding it treats
// the entry as orphaned.
func ResolvePath(entry DirEntry, index map[uint32]*DirEntry, directoryCount int) string {
	var parts []string
	cursor := entry.ContainingCluster
	maxIterations := directoryCount + 1

	for iterations := 0; ; iterations++ {
		if cursor == 0 || cursor == 2 {
			parts = append([]string{RootMarker}, parts...)
			return joinPath(parts)
		}
		if iterations >= maxIterations {
			// Cycle guard tripped: treat as orphaned.
			return RootMarker
		}

		parent, ok := index[cursor]
		if !ok {
			parts = append([]string{RootMarker}, parts...)
			return joinPath(parts)
		}

		parts = append([]string{parent.Filename}, parts...)
		cursor = parent.ContainingCluster
	}
}

func joinPath(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += PathSeparator + p
	}
	return out
}

// ResolveAllPaths fills in the Path field of every entry in place,
// using a single shared directory index (order-independent of
// discovery order, spec.md §5).
func ResolveAllPaths(entries []DirEntry) {
	index := BuildDirectoryIndex(entries)
	for i := range entries {
		entries[i].Path = ResolvePath(entries[i], index, len(index))
	}
}
