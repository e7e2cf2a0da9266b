package transform

import (
	"fmt"

	"vidcap/pkg/textnorm"
	"vidcap/pkg/vocab"
)

// TokenTransform maps a token index sequence to a new one.
type TokenTransform func(indices []int) []int

// ToIndex maps tokens to their vocabulary indices. Tokens absent from the
// mapping, whether trimmed by the frequency filter or never seen, are
// dropped from the sequence rather than replaced with <UNK>.
func ToIndex(v *vocab.Vocabulary) func(words []string) []int {
	return func(words []string) []int {
		indices := make([]int, 0, len(words))
		for _, word := range words {
			if idx, ok := v.Index(word); ok {
				indices = append(indices, idx)
			}
		}
		return indices
	}
}

// PadFirst prepends one marker index.
func PadFirst(tok int) TokenTransform {
	return func(indices []int) []int {
		out := make([]int, 0, len(indices)+1)
		out = append(out, tok)
		return append(out, indices...)
	}
}

// PadLast appends one marker index.
func PadLast(tok int) TokenTransform {
	return func(indices []int) []int {
		out := make([]int, 0, len(indices)+1)
		out = append(out, indices...)
		return append(out, tok)
	}
}

// PadToLength right-pads with a marker index until the sequence reaches
// length. Sequences already at or above length pass through unchanged.
func PadToLength(tok, length int) TokenTransform {
	return func(indices []int) []int {
		if len(indices) >= length {
			return indices
		}
		out := make([]int, 0, length)
		out = append(out, indices...)
		for len(out) < length {
			out = append(out, tok)
		}
		return out
	}
}

// Encoder turns a raw caption into a fixed-length index sequence:
// normalize, map to indices (dropping unknown words), append one <EOS>,
// then right-pad with <PAD> to MaxSentenceLen+1.
//
// A caption whose words are all dropped encodes to [EOS, PAD, ...], which
// is valid output.
type Encoder struct {
	norm   *textnorm.Normalizer
	vocab  *vocab.Vocabulary
	eos    int
	pad    int
	length int
}

// NewEncoder creates an Encoder over an immutable vocabulary. The
// normalizer must be the one the vocabulary was built with, so both sides
// tokenize identically. Fails if the vocabulary saw no captions (its
// MaxSentenceLen sentinel is -1) or lacks the <EOS>/<PAD> markers.
func NewEncoder(norm *textnorm.Normalizer, v *vocab.Vocabulary) (*Encoder, error) {
	if v.MaxSentenceLen() < 0 {
		return nil, fmt.Errorf("encoder: vocabulary built from an empty corpus")
	}
	eos, ok := v.Index(vocab.EOSToken)
	if !ok {
		return nil, fmt.Errorf("encoder: vocabulary has no %s marker", vocab.EOSToken)
	}
	pad, ok := v.Index(vocab.PadToken)
	if !ok {
		return nil, fmt.Errorf("encoder: vocabulary has no %s marker", vocab.PadToken)
	}
	return &Encoder{
		norm:   norm,
		vocab:  v,
		eos:    eos,
		pad:    pad,
		length: v.MaxSentenceLen() + 1,
	}, nil
}

// Encode transforms one raw caption. The result always has length
// MaxSentenceLen+1 for captions drawn from the vocabulary's corpus.
func (e *Encoder) Encode(caption string) []int {
	indices := ToIndex(e.vocab)(e.norm.Apply(caption))
	indices = PadLast(e.eos)(indices)
	return PadToLength(e.pad, e.length)(indices)
}

// Len returns the fixed output length, MaxSentenceLen+1.
func (e *Encoder) Len() int {
	return e.length
}
