// Package legacyenc decodes the legacy single-byte encoding used for
// FAT 8.3 short filenames. SFN bytes are not UTF-8 (spec.md §9); this
// package converts them using the IBM PC / MS-DOS code page (CP437),
// the common default for FAT32 volumes written by non-Japanese
// systems, and strips the control characters that sometimes survive in
// deleted/overwritten entries.
package legacyenc

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DecodeSFN converts raw CP437 bytes (already space-padded per the FAT
// spec) to a sanitized, trimmed string. CP437 maps every byte value, so
// decoding does not fail in practice; if it does, the raw bytes are
// passed to Sanitize unchanged as a Go string rather than failing the
// whole record.
func DecodeSFN(raw []byte) string {
	decoded, err := charmap.CodePage437.NewDecoder().Bytes(raw)
	if err != nil {
		decoded = raw
	}
	return Sanitize(string(decoded))
}

// Sanitize removes code points below 0x20 and 0x7F (DEL), then trims
// surrounding whitespace — mirrors
// original_source/undelete.py's sanitize_string.
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
