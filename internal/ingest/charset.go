package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	longTextThreshold = 200
	scriptProbeRunes  = 500
)

// RepairText normalizes a raw timetable export into Unicode text. Exports are
// either UTF-8 or a legacy single-byte Windows-1256 file that was decoded as
// the wrong charset somewhere upstream; in the latter case the original bytes
// are re-read through the Windows-1256 table. Total over every byte value and
// idempotent on already-correct text.
func RepairText(raw []byte) string {
	text := string(raw)
	if !looksCorrupted(text) {
		return text
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		b.WriteRune(decodeLegacyByte(c))
	}
	return b.String()
}

// decodeLegacyByte maps one byte of a legacy export to its Unicode rune.
// Bytes below 0x80 are ASCII; bytes the Windows-1256 table leaves undefined
// pass through unchanged.
func decodeLegacyByte(c byte) rune {
	if c < 0x80 {
		return rune(c)
	}
	r := charmap.Windows1256.DecodeByte(c)
	if r == utf8.RuneError {
		return rune(c)
	}
	return r
}

// looksCorrupted reports whether text shows the signature of a mis-decoded
// legacy export: replacement characters, or a long document whose opening has
// no Arabic script yet contains literal question marks.
func looksCorrupted(text string) bool {
	if strings.ContainsRune(text, utf8.RuneError) {
		return true
	}
	if len(text) <= longTextThreshold {
		return false
	}
	if hasArabicPrefix(text, scriptProbeRunes) {
		return false
	}
	return strings.ContainsRune(text, '?')
}

func hasArabicPrefix(text string, limit int) bool {
	seen := 0
	for _, r := range text {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
		seen++
		if seen >= limit {
			break
		}
	}
	return false
}
