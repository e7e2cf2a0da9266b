package textnorm

import (
	"reflect"
	"testing"
)

// TestApply tests the full normalization chain.
func TestApply(t *testing.T) {
	n := New(30)

	tests := []struct {
		input    string
		expected []string
	}{
		{"A man is playing a guitar.", []string{"a", "man", "is", "playing", "a", "guitar"}},
		{"Don't stop!", []string{"dont", "stop"}},
		{"  spaced   out  ", []string{"spaced", "out"}},
		{"", nil},
		{"   ", nil},
		{"...!!!", nil},
		{"MiXeD CaSe", []string{"mixed", "case"}},
	}

	for _, tc := range tests {
		got := n.Apply(tc.input)
		if len(got) == 0 && len(tc.expected) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("Apply(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

// TestApplyTruncates tests the max word limit.
func TestApplyTruncates(t *testing.T) {
	n := New(3)

	got := n.Apply("one two three four five")
	expected := []string{"one", "two", "three"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	// Shorter captions pass through unchanged.
	got = n.Apply("one two")
	if len(got) != 2 {
		t.Errorf("expected 2 tokens, got %d", len(got))
	}
}

// TestApplyASCIIOnly tests the optional non-ASCII pre-step.
func TestApplyASCIIOnly(t *testing.T) {
	n := New(30, WithASCIIOnly())

	got := n.Apply("café au lait")
	expected := []string{"caf", "au", "lait"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

// TestStripPunctuation tests punctuation removal.
func TestStripPunctuation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello, world!", "hello world"},
		{"a.b.c", "abc"},
		{"no punct", "no punct"},
		{"(parens) [brackets] {braces}", "parens brackets braces"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := StripPunctuation(tc.input); got != tc.expected {
			t.Errorf("StripPunctuation(%q): expected %q, got %q", tc.input, tc.expected, got)
		}
	}
}

// TestTruncate tests token truncation edge cases.
func TestTruncate(t *testing.T) {
	words := []string{"a", "b", "c"}

	if got := Truncate(words, 2); len(got) != 2 {
		t.Errorf("expected 2 tokens, got %d", len(got))
	}
	if got := Truncate(words, 5); len(got) != 3 {
		t.Errorf("expected 3 tokens, got %d", len(got))
	}
	if got := Truncate(words, 0); len(got) != 3 {
		t.Errorf("non-positive limit should pass through, got %d tokens", len(got))
	}
	if got := Truncate(nil, 4); len(got) != 0 {
		t.Errorf("expected empty result for nil input, got %v", got)
	}
}

// TestSplitWhitespace tests whitespace splitting.
func TestSplitWhitespace(t *testing.T) {
	got := SplitWhitespace("a\tb\n c")
	expected := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	if got := SplitWhitespace("   "); len(got) != 0 {
		t.Errorf("expected no tokens for whitespace-only input, got %v", got)
	}
}
