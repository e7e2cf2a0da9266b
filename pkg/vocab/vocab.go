// Package vocab builds word vocabularies from caption corpora.
//
// A Builder feeds every caption through a shared textnorm.Normalizer,
// accumulates word frequencies, and produces an immutable Vocabulary: a
// bidirectional word<->index mapping with reserved markers at the lowest
// indices and corpus words after them, trimmed by a minimum-frequency
// threshold. The Vocabulary is safe for concurrent readers once built.
package vocab

import (
	"vidcap/pkg/textnorm"
)

// Reserved marker tokens. They are seeded into the mapping before any
// corpus word and are present regardless of corpus frequency.
const (
	PadToken = "<PAD>"
	SOSToken = "<SOS>"
	EOSToken = "<EOS>"
	UnkToken = "<UNK>"
)

// DefaultReserved returns the standard reserved block in index order:
// <PAD>=0, <SOS>=1, <EOS>=2, <UNK>=3.
func DefaultReserved() []string {
	return []string{PadToken, SOSToken, EOSToken, UnkToken}
}

// Stats holds corpus diagnostics gathered during the build.
// Reserved markers are not counted here.
type Stats struct {
	DistinctWords int // distinct words before trimming
	TotalWords    int // word occurrences before trimming
	DistinctKept  int // distinct words surviving the frequency filter
	TotalKept     int // occurrences of kept words only
}

// Builder accumulates frequency counts over a caption corpus.
// Not safe for concurrent use.
type Builder struct {
	norm     *textnorm.Normalizer
	minCount int
	reserved []string

	freq   map[string]int
	order  []string // first-seen order, drives index assignment
	maxLen int
}

// NewBuilder creates a Builder. Words with corpus frequency below minCount
// are excluded from the final mapping (minCount <= 1 keeps everything).
// The reserved block defaults to DefaultReserved.
func NewBuilder(norm *textnorm.Normalizer, minCount int, reserved ...string) *Builder {
	if len(reserved) == 0 {
		reserved = DefaultReserved()
	}
	return &Builder{
		norm:     norm,
		minCount: minCount,
		reserved: reserved,
		freq:     make(map[string]int),
		maxLen:   -1,
	}
}

// Add feeds one raw caption into the frequency table. Every token counts,
// including words that the frequency filter will later discard.
func (b *Builder) Add(caption string) {
	words := b.norm.Apply(caption)
	if len(words) > b.maxLen {
		b.maxLen = len(words)
	}
	for _, word := range words {
		if _, seen := b.freq[word]; !seen {
			b.order = append(b.order, word)
		}
		b.freq[word]++
	}
}

// AddAll feeds a whole caption corpus.
func (b *Builder) AddAll(captions []string) {
	for _, caption := range captions {
		b.Add(caption)
	}
}

// Build produces the immutable Vocabulary. Kept words are indexed in
// first-seen order starting right after the reserved block. An empty corpus
// yields a vocabulary of only the reserved markers with MaxSentenceLen -1.
func (b *Builder) Build() *Vocabulary {
	v := &Vocabulary{
		wordToIndex: make(map[string]int, len(b.reserved)+len(b.order)),
		indexToWord: make(map[int]string, len(b.reserved)+len(b.order)),
		minCount:    b.minCount,
		maxLen:      b.maxLen,
	}

	for i, token := range b.reserved {
		v.wordToIndex[token] = i
		v.indexToWord[i] = token
	}

	for _, word := range b.order {
		v.stats.DistinctWords++
		v.stats.TotalWords += b.freq[word]
		if b.freq[word] < b.minCount {
			continue
		}
		idx := len(v.wordToIndex)
		v.wordToIndex[word] = idx
		v.indexToWord[idx] = word
		v.stats.DistinctKept++
		v.stats.TotalKept += b.freq[word]
	}

	return v
}

// Vocabulary is an immutable bidirectional word<->index mapping.
type Vocabulary struct {
	wordToIndex map[string]int
	indexToWord map[int]string
	minCount    int
	maxLen      int
	stats       Stats
}

// Index returns the index for a word and whether the word is in the mapping.
func (v *Vocabulary) Index(word string) (int, bool) {
	idx, ok := v.wordToIndex[word]
	return idx, ok
}

// Word returns the word at an index and whether the index is assigned.
func (v *Vocabulary) Word(idx int) (string, bool) {
	word, ok := v.indexToWord[idx]
	return word, ok
}

// Contains reports whether a word is in the mapping.
func (v *Vocabulary) Contains(word string) bool {
	_, ok := v.wordToIndex[word]
	return ok
}

// Len returns the mapping size, reserved markers included.
func (v *Vocabulary) Len() int {
	return len(v.wordToIndex)
}

// MinCount returns the inclusive frequency threshold used for the build.
func (v *Vocabulary) MinCount() int {
	return v.minCount
}

// MaxSentenceLen returns the maximum token count seen across all captions,
// computed before trimming. It is -1 when no caption was observed; callers
// sizing padded sequences must check for that sentinel.
func (v *Vocabulary) MaxSentenceLen() int {
	return v.maxLen
}

// Stats returns the corpus diagnostics gathered during the build.
func (v *Vocabulary) Stats() Stats {
	return v.stats
}

// Decode maps an index sequence back to words, skipping unassigned indices
// and the reserved markers. Useful for inspecting generated captions.
func (v *Vocabulary) Decode(indices []int) []string {
	var words []string
	for _, idx := range indices {
		word, ok := v.indexToWord[idx]
		if !ok {
			continue
		}
		switch word {
		case PadToken, SOSToken, EOSToken, UnkToken:
			continue
		}
		words = append(words, word)
	}
	return words
}
