// Package textutil provides text normalization helpers for deterministic
// file naming across the signing hand-off.
package textutil

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripper decomposes to NFD, removes combining marks and recomposes to NFC.
var stripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// RemoveDiacritics strips accents from s, mapping e.g. "žiadosť" to "ziadost".
// Characters without a decomposed form (including non-Latin scripts) pass
// through unchanged. The input is returned as-is if transformation fails.
func RemoveDiacritics(s string) string {
	out, _, err := transform.String(stripper, s)
	if err != nil {
		return s
	}
	return out
}
