package fat32

import (
	"sort"
	"unicode/utf16"

	"github.com/arlojade/fat32recover/internal/legacyenc"
)

// lastLogicalBit marks the first-physical/last-logical LFN slot
// (ordinal | 0x40).
const lastLogicalBit = 0x40

// ordinalMask strips the last-logical bit to get the 1-based sequence
// number within the run.
const ordinalMask = 0x3F

// lfnSlice is one decoded LFN directory-entry slot, still in arrival
// (reverse-logical) order.
type lfnSlice struct {
	seq      byte
	checksum byte
	units    []uint16 // up to 13 UTF-16 code units, NUL/0xFFFF-padded
}

// lfnState is the assembler's state machine (spec.md §9: "LFN assembly
// as a small state machine rather than an implicit buffer check").
type lfnState int

const (
	lfnIdle lfnState = iota
	lfnCollecting
)

// lfnAssembler accumulates LFN slices ahead of the SFN record that
// terminates the run, and resolves them into a filename once the SFN
// arrives.
type lfnAssembler struct {
	state  lfnState
	slices []lfnSlice
}

func newLFNAssembler() *lfnAssembler {
	return &lfnAssembler{state: lfnIdle}
}

// Push appends one decoded LFN slice to the in-progress run.
func (a *lfnAssembler) Push(slice lfnSlice) {
	a.slices = append(a.slices, slice)
	a.state = lfnCollecting
}

// Reset discards any in-progress run, e.g. on a 0x00 terminator
// (spec.md §3 invariant: the LFN buffer is empty after a 0x00 entry)
// or after an SFN has consumed it.
func (a *lfnAssembler) Reset() {
	a.state = lfnIdle
	a.slices = nil
}

// Empty reports whether there is no in-progress LFN run.
func (a *lfnAssembler) Empty() bool {
	return len(a.slices) == 0
}

// Resolve attempts to turn the accumulated slices into a filename. It
// returns ("", false) if the run is empty, or if the first
// (oldest-pushed, i.e. highest ordinal) slice's sequence count doesn't
// match the buffer length — spec.md §4.D's "mismatched count" edge
// case, handled here as a pure state reset rather than a panic or a
// corrupted name. The caller must call Reset after Resolve regardless
// of outcome.
func (a *lfnAssembler) Resolve() (string, bool) {
	if len(a.slices) == 0 {
		return "", false
	}

	first := a.slices[0]
	if first.seq&lastLogicalBit == 0 {
		return "", false
	}
	if int(first.seq&ordinalMask) != len(a.slices) {
		return "", false
	}

	sorted := make([]lfnSlice, len(a.slices))
	copy(sorted, a.slices)
	sort.Slice(sorted, func(i, j int) bool {
		return (sorted[i].seq & ordinalMask) < (sorted[j].seq & ordinalMask)
	})

	var units []uint16
	for _, s := range sorted {
		units = append(units, s.units...)
	}

	decoded := utf16.Decode(units)
	name := decoded
	if idx := indexRune(name, 0); idx >= 0 {
		name = name[:idx]
	}

	return legacyenc.Sanitize(string(name)), true
}

func indexRune(runes []rune, target rune) int {
	for i, r := range runes {
		if r == target {
			return i
		}
	}
	return -1
}

// parseLFNSlice extracts the sequence byte, checksum, and the 13
// UTF-16 code units (three non-contiguous ranges: [1:11), [14:26),
// [28:32)) from a raw 32-byte LFN directory entry (spec.md §4.D).
func parseLFNSlice(entry []byte) lfnSlice {
	units := make([]uint16, 0, 13)
	for _, rng := range [][2]int{{1, 11}, {14, 26}, {28, 32}} {
		for i := rng[0]; i < rng[1]; i += 2 {
			units = append(units, uint16(entry[i])|uint16(entry[i+1])<<8)
		}
	}
	return lfnSlice{
		seq:      entry[0],
		checksum: entry[13],
		units:    units,
	}
}
