// Package transform provides the per-record sequence transforms applied on
// dataset access: temporal sampling and zero-padding for frame sequences,
// and index mapping plus length padding for caption token sequences.
//
// All transforms are pure: they never mutate their input and allocate fresh
// output where the result differs, so concurrent readers can share the
// underlying feature arrays.
package transform

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ErrNoFrames is returned when a padding transform receives an empty frame
// sequence. There is no frame to infer the zero shape from, which indicates
// corrupt upstream data.
var ErrNoFrames = errors.New("transform: empty frame sequence")

// FrameTransform maps an ordered frame sequence to a new one. Frames are
// per-timestep feature vectors.
type FrameTransform func(frames [][]float32) ([][]float32, error)

// ChainFrames composes transforms left to right.
func ChainFrames(steps ...FrameTransform) FrameTransform {
	return func(frames [][]float32) ([][]float32, error) {
		var err error
		for _, step := range steps {
			frames, err = step(frames)
			if err != nil {
				return nil, err
			}
		}
		return frames, nil
	}
}

// UniformSample selects n frames at evenly spaced positions across
// [0, len-1], truncating each position to its integer part. Sequences
// shorter than n pass through unchanged; the caller pads afterward.
func UniformSample(n int) FrameTransform {
	return func(frames [][]float32) ([][]float32, error) {
		if n <= 0 || len(frames) < n {
			return frames, nil
		}
		out := make([][]float32, n)
		for i, idx := range linspaceIndices(len(frames), n) {
			out[i] = frames[idx]
		}
		return out, nil
	}
}

// RandomSample selects n distinct frames at random, preserving temporal
// order. Sequences shorter than n pass through unchanged.
func RandomSample(n int, rng *rand.Rand) FrameTransform {
	return func(frames [][]float32) ([][]float32, error) {
		if n <= 0 || len(frames) < n {
			return frames, nil
		}
		indices := rng.Perm(len(frames))[:n]
		sort.Ints(indices)
		out := make([][]float32, n)
		for i, idx := range indices {
			out[i] = frames[idx]
		}
		return out, nil
	}
}

// UniformJitterSample starts from the evenly spaced positions of
// UniformSample and perturbs each with clamped gaussian jitter, re-sorting
// so temporal order is preserved. Sequences shorter than n pass through
// unchanged.
func UniformJitterSample(n int, rng *rand.Rand) FrameTransform {
	return func(frames [][]float32) ([][]float32, error) {
		if n <= 0 || len(frames) < n {
			return frames, nil
		}
		jitterStd := math.Sqrt(float64(len(frames)) / float64(n) / 4)
		indices := linspaceIndices(len(frames), n)
		for i, idx := range indices {
			j := idx + int(rng.NormFloat64()*jitterStd)
			if j < 0 {
				j = 0
			}
			if j > len(frames)-1 {
				j = len(frames) - 1
			}
			indices[i] = j
		}
		sort.Ints(indices)
		out := make([][]float32, n)
		for i, idx := range indices {
			out[i] = frames[idx]
		}
		return out, nil
	}
}

// ZeroPadIfLessThan appends all-zero frames shaped like the first frame
// until the sequence reaches n. Sequences already at or above n pass
// through unchanged. Fails with ErrNoFrames on empty input.
func ZeroPadIfLessThan(n int) FrameTransform {
	return func(frames [][]float32) ([][]float32, error) {
		if len(frames) >= n {
			return frames, nil
		}
		if len(frames) == 0 {
			return nil, fmt.Errorf("zero-pad to %d: %w", n, ErrNoFrames)
		}
		dim := len(frames[0])
		out := make([][]float32, 0, n)
		out = append(out, frames...)
		for len(out) < n {
			out = append(out, make([]float32, dim))
		}
		return out, nil
	}
}

// linspaceIndices returns n integer positions evenly spaced across
// [0, length-1], each truncated toward zero.
func linspaceIndices(length, n int) []int {
	indices := make([]int, n)
	if n == 1 {
		return indices
	}
	step := float64(length-1) / float64(n-1)
	for i := range indices {
		indices[i] = int(float64(i) * step)
	}
	return indices
}
