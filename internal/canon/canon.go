// Package canon maps free-text company names to canonical identity keys.
//
// Two raw names denote the same company iff their keys are equal. The mapping
// folds case, drops the two Korean legal-entity markers "(주)" and "주식회사",
// and removes every whitespace rune. Nothing else is normalized: there is no
// fuzzy or phonetic matching.
//
// Every comparison between company names in this module (registry lookups,
// duplicate checks, the store's unique column) goes through Normalize.
package canon

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Legal-entity markers removed from names. Only these two literal substrings
// are stripped, never a general pattern.
const (
	MarkerParenthesized = "(주)"
	MarkerSpelledOut    = "주식회사"
)

// Key is the canonical identity of a company name.
// The empty Key means "no usable name" and never matches anything.
type Key string

// IsEmpty reports whether k is the no-usable-name sentinel.
func (k Key) IsEmpty() bool {
	return k == ""
}

// String returns the key as a plain string.
func (k Key) String() string {
	return string(k)
}

// Normalize returns the canonical key for raw.
//
// Steps, applied until the result stops changing:
//  1. NFC composition, so conjoining jamo and precomposed syllables agree
//  2. lower-casing with root-locale rules
//  3. removal of MarkerParenthesized and MarkerSpelledOut
//  4. removal of all whitespace runes
//
// Repeating the pass keeps Normalize idempotent when removing whitespace
// joins characters that then compose into a marker, and when removing one
// marker exposes another. The loop ends: after the first pass the text is
// lower-case, so every later pass that changes it makes it shorter.
func Normalize(raw string) Key {
	if raw == "" {
		return ""
	}

	s := raw
	for {
		next := pass(s)
		if next == s {
			return Key(s)
		}
		s = next
	}
}

// Equal reports whether a and b name the same company.
// Names that normalize to the empty key are never equal to anything.
func Equal(a, b string) bool {
	ka := Normalize(a)
	return !ka.IsEmpty() && ka == Normalize(b)
}

func pass(s string) string {
	s = norm.NFC.String(s)
	// Casers carry state; one per call keeps Normalize safe for concurrent use.
	s = cases.Lower(language.Und).String(s)
	s = strings.ReplaceAll(s, MarkerParenthesized, "")
	s = strings.ReplaceAll(s, MarkerSpelledOut, "")

	out, _, err := transform.String(runes.Remove(runes.Predicate(unicode.IsSpace)), s)
	if err != nil {
		// runes.Remove does not report errors today; keep a plain filter anyway.
		return strings.Map(dropSpace, s)
	}
	return out
}

func dropSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return -1
	}
	return r
}
