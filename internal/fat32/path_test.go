package fat32

import "testing"

// TestResolvePathScenario5 matches spec.md §8 concrete scenario 5: a
// candidate file in a "docs" directory directly under root.
func TestResolvePathScenario5(t *testing.T) {
	docs := DirEntry{Filename: "docs", Kind: KindDirectory, StartCluster: 50, ContainingCluster: 2}
	file := DirEntry{Filename: "report.pdf", Kind: KindFile, ContainingCluster: 50}

	index := BuildDirectoryIndex([]DirEntry{docs})
	got := ResolvePath(file, index, len(index))

	want := `ROOT\docs`
	if got != want {
		t.Errorf("ResolvePath = %q, want %q", got, want)
	}
}

func TestResolvePathRoot(t *testing.T) {
	file := DirEntry{Filename: "top.txt", ContainingCluster: 2}
	got := ResolvePath(file, map[uint32]*DirEntry{}, 0)
	if got != RootMarker {
		t.Errorf("ResolvePath = %q, want %q", got, RootMarker)
	}
}

func TestResolvePathOrphanedAncestor(t *testing.T) {
	// containing_cluster 99 has no entry in the index: the walk can't
	// find its parent and must treat it as orphaned, not loop forever.
	file := DirEntry{Filename: "orphan.txt", ContainingCluster: 99}
	got := ResolvePath(file, map[uint32]*DirEntry{}, 0)
	if got != RootMarker {
		t.Errorf("ResolvePath = %q, want %q", got, RootMarker)
	}
}

func TestResolvePathCycleGuard(t *testing.T) {
	// a points to b, b points back to a: a genuine cycle that must not
	// spin forever.
	a := DirEntry{Filename: "a", Kind: KindDirectory, StartCluster: 10, ContainingCluster: 20}
	b := DirEntry{Filename: "b", Kind: KindDirectory, StartCluster: 20, ContainingCluster: 10}
	index := BuildDirectoryIndex([]DirEntry{a, b})

	file := DirEntry{Filename: "stuck.txt", ContainingCluster: 10}
	got := ResolvePath(file, index, len(index))
	if got != RootMarker {
		t.Errorf("ResolvePath = %q, want %q (cycle should be caught)", got, RootMarker)
	}
}

func TestBuildDirectoryIndexSkipsDeletedAndFiles(t *testing.T) {
	live := DirEntry{Filename: "live", Kind: KindDirectory, StartCluster: 5}
	deleted := DirEntry{Filename: "gone", Kind: KindDirectory, StartCluster: 6, Deleted: true}
	file := DirEntry{Filename: "f.txt", Kind: KindFile, StartCluster: 7}

	index := BuildDirectoryIndex([]DirEntry{live, deleted, file})

	if _, ok := index[5]; !ok {
		t.Error("expected live directory at cluster 5 to be indexed")
	}
	if _, ok := index[6]; ok {
		t.Error("deleted directory at cluster 6 should not be indexed")
	}
	if _, ok := index[7]; ok {
		t.Error("file at cluster 7 should not be indexed")
	}
}

func TestResolveAllPathsBeginWithRoot(t *testing.T) {
	docs := DirEntry{Filename: "docs", Kind: KindDirectory, StartCluster: 50, ContainingCluster: 2}
	file := DirEntry{Filename: "report.pdf", Kind: KindFile, ContainingCluster: 50}
	entries := []DirEntry{docs, file}

	ResolveAllPaths(entries)

	for _, e := range entries {
		if len(e.Path) < 4 || e.Path[:4] != RootMarker {
			t.Errorf("path %q does not begin with %q", e.Path, RootMarker)
		}
	}
}
