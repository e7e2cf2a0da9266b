// Package textnorm normalizes raw caption strings into token sequences.
//
// The same chain is used when building a vocabulary and when encoding
// captions at batch time, so both sides see identical tokens:
//
//	strip ASCII punctuation -> lowercase -> whitespace split -> truncate
//
// Every step is a pure function of its input; the package holds no state
// beyond the configured limits.
package textnorm

import (
	"strings"
	"unicode"
)

// asciiPunctuation is the fixed set of characters removed before splitting.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalizer applies the normalization chain in a fixed order.
type Normalizer struct {
	maxWords  int
	asciiOnly bool
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithASCIIOnly drops non-ASCII runes before punctuation stripping.
func WithASCIIOnly() Option {
	return func(n *Normalizer) { n.asciiOnly = true }
}

// New creates a Normalizer that keeps at most maxWords tokens per caption.
// A non-positive maxWords disables truncation.
func New(maxWords int, opts ...Option) *Normalizer {
	n := &Normalizer{maxWords: maxWords}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Apply runs the full chain on a raw caption. Any input is accepted;
// empty and whitespace-only strings produce an empty token slice.
func (n *Normalizer) Apply(caption string) []string {
	s := caption
	if n.asciiOnly {
		s = TrimExceptASCII(s)
	}
	s = StripPunctuation(s)
	s = strings.ToLower(s)
	words := SplitWhitespace(s)
	return Truncate(words, n.maxWords)
}

// MaxWords returns the configured truncation limit.
func (n *Normalizer) MaxWords() int {
	return n.maxWords
}

// StripPunctuation deletes every ASCII punctuation character. No
// substitution is made, so "don't" becomes "dont".
func StripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, s)
}

// TrimExceptASCII removes every rune outside the ASCII range.
func TrimExceptASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
}

// SplitWhitespace splits on runs of whitespace, discarding empty fragments.
func SplitWhitespace(s string) []string {
	return strings.Fields(s)
}

// Truncate keeps the first n tokens. Shorter slices and non-positive n
// pass through unchanged.
func Truncate(words []string, n int) []string {
	if n <= 0 || len(words) <= n {
		return words
	}
	return words[:n]
}
