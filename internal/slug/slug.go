// Package slug derives URL-safe identifiers from recipe titles.
//
// A slug is the lowercase title with diacritics folded away and every run of
// non-alphanumeric characters collapsed into a single hyphen. Slugs are
// assigned once at creation and never regenerated on edit; uniqueness is
// ultimately enforced by the database, with WithSuffix providing fresh
// candidates when a collision occurs.
package slug

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxLen caps generated slugs so they fit the recipes.slug column with room
// for a disambiguating suffix.
const maxLen = 200

// suffixBytes is the entropy of a disambiguating suffix (hex-encoded, so the
// suffix is twice this many characters).
const suffixBytes = 4

// foldDiacritics decomposes to NFD, strips combining marks, and recomposes,
// so "Crème Brûlée" slugs as "creme-brulee".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make normalizes title into a slug candidate: lowercase ASCII letters and
// digits with single hyphens between words, no leading or trailing hyphen,
// at most 200 characters. It returns "" when the title contains nothing
// usable; callers must substitute a fallback before persisting.
func Make(title string) string {
	folded, _, err := transform.String(foldDiacritics, title)
	if err != nil {
		// Transform only fails on malformed input; slug from the raw title.
		folded = title
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range folded {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			if b.Len() > 0 {
				pendingSep = true
			}
			continue
		}
		if pendingSep {
			b.WriteByte('-')
			pendingSep = false
		}
		b.WriteRune(r)
	}

	s := b.String()
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	return s
}

// WithSuffix returns base extended with a short random hex token, producing a
// fresh candidate after a uniqueness collision. The result still starts with
// base, so disambiguated slugs remain recognizable in URLs.
func WithSuffix(base string) string {
	var buf [suffixBytes]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; if it somehow
		// does, the caller's retry loop ends at the unique constraint.
		return base
	}
	return base + "-" + hex.EncodeToString(buf[:])
}
