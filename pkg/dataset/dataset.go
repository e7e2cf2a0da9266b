// Package dataset pairs video frame features with their captions and
// serves fixed-shape numeric examples to a training loop.
//
// The pipeline: a CaptionTable and FeatureStore are loaded eagerly, every
// (clip, caption) combination becomes one example, and Get applies the
// frame transform and caption encoder fresh on each access. Everything
// after construction is immutable, so Get is safe from any number of
// goroutines.
package dataset

import (
	"fmt"

	"vidcap/pkg/transform"
)

// Item is one transformed example: a fixed-length frame sequence and a
// fixed-length caption index sequence.
type Item struct {
	ClipID  string
	Frames  [][]float32
	Caption []int
}

type example struct {
	clipID  string
	frames  [][]float32 // shared read-only with siblings of the same clip
	caption string
}

// Dataset is the materialized (clip, caption) cross-product with the
// per-record transforms attached.
type Dataset struct {
	examples []example
	frameT   transform.FrameTransform
	encoder  *transform.Encoder
}

// New pairs every clip in the store with each of its captions, in sorted
// clip order. Clips without captions contribute no examples, and captions
// whose clip is absent from the store are dropped; both silently, matching
// the pipeline's documented data-loss behavior. The feature arrays are
// shared by reference across all examples of a clip.
func New(store *FeatureStore, captions *CaptionTable, frameT transform.FrameTransform, encoder *transform.Encoder) *Dataset {
	d := &Dataset{frameT: frameT, encoder: encoder}
	for _, clip := range store.IDs() {
		frames, _ := store.Get(clip)
		for _, text := range captions.ForClip(clip) {
			d.examples = append(d.examples, example{clipID: clip, frames: frames, caption: text})
		}
	}
	return d
}

// Len returns the total example count.
func (d *Dataset) Len() int {
	return len(d.examples)
}

// Get returns the i-th example with both transforms applied. Transforms
// run fresh on every call; nothing is cached. Fails with ErrOutOfRange for
// i outside [0, Len()).
func (d *Dataset) Get(i int) (Item, error) {
	if i < 0 || i >= len(d.examples) {
		return Item{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, len(d.examples))
	}
	ex := d.examples[i]

	frames, err := d.frameT(ex.frames)
	if err != nil {
		return Item{}, fmt.Errorf("example %d (clip %s): %w", i, ex.clipID, err)
	}

	return Item{
		ClipID:  ex.clipID,
		Frames:  frames,
		Caption: d.encoder.Encode(ex.caption),
	}, nil
}
