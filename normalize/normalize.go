// Package normalize implements name canonicalization for Indian electoral
// entities. Source datasets disagree on diacritics, casing, punctuation and
// reservation suffixes; every lookup key in the module is produced here so
// the same free-text name always reduces to the same canonical key.
//
// All functions are pure and total: they never fail and are idempotent
// (Key(Key(x)) == Key(x)).
package normalize

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// Key reduces a free-text name to its canonical lookup key: transliterate
// diacritics to ASCII, expand "&" to "and", lower-case, drop everything that
// is not a letter or digit, collapse runs of whitespace to single spaces.
func Key(raw string) string {
	s := unidecode.Unidecode(raw)
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	lastWasSpace := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastWasSpace = false
		case !lastWasSpace:
			b.WriteByte(' ')
			lastWasSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// StripReservationSuffix removes a trailing "(SC)" or "(ST)" parenthetical,
// case-insensitively. Names without the suffix pass through unchanged.
func StripReservationSuffix(name string) string {
	trimmed := strings.TrimRight(name, " ")
	for _, suffix := range []string{"(sc)", "(st)"} {
		if len(trimmed) < len(suffix) {
			continue
		}
		tail := strings.ToLower(trimmed[len(trimmed)-len(suffix):])
		if tail == suffix {
			return strings.TrimRight(trimmed[:len(trimmed)-len(suffix)], " ")
		}
	}
	return trimmed
}

// StripParens removes every parenthesized segment from the name.
// "Ramanathapuram (SC) (New)" -> "Ramanathapuram".
func StripParens(name string) string {
	var b strings.Builder
	depth := 0
	for _, r := range name {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// AlphaNum keeps only lower-cased letters and digits, discarding all
// punctuation and spacing. Used for district comparisons where sources
// disagree even on word boundaries ("Y.S.R." vs "YSR Kadapa").
func AlphaNum(raw string) string {
	s := strings.ToLower(unidecode.Unidecode(raw))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Slug produces the deep-link path form of a name: diacritics stripped,
// lower-cased, spaces hyphenated. "Tamil Nādu" -> "tamil-nadu".
func Slug(name string) string {
	return strings.ReplaceAll(Key(name), " ", "-")
}

// phonetic digraph reductions applied before vowel stripping
var phoneticDigraphs = [][2]string{
	{"th", "t"},
	{"ph", "f"},
	{"gh", "g"},
	{"bh", "b"},
	{"dh", "d"},
	{"kh", "k"},
	{"sh", "s"},
	{"ch", "c"},
}

const phoneticPrefixLen = 12

// PhoneticKey reduces a name for sound-alike comparison: canonical key,
// digraph collapse (TH->T, PH->F), Y->I, W->V, vowels stripped after the
// first character, truncated to a 12-character prefix. Transliterated Indian
// names diverge mostly in vowels and aspirated consonants, which this
// removes.
func PhoneticKey(name string) string {
	s := strings.ReplaceAll(Key(name), " ", "")
	if s == "" {
		return ""
	}
	for _, d := range phoneticDigraphs {
		s = strings.ReplaceAll(s, d[0], d[1])
	}
	s = strings.ReplaceAll(s, "y", "i")
	s = strings.ReplaceAll(s, "w", "v")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && strings.ContainsRune("aeiou", r) {
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > phoneticPrefixLen {
		out = out[:phoneticPrefixLen]
	}
	return out
}
