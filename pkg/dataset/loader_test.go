package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestCollateShapes(t *testing.T) {
	ds, v := buildDataset(t, 4)
	l := NewLoader(ds, 2, WithWorkers(4))

	batch, err := l.Collate(context.Background(), []int{0, 1})
	require.NoError(t, err)

	assert.Equal(t, 2, batch.Size())
	assert.Equal(t, tensor.Shape{2, 4, 4}, batch.Videos.Shape())
	assert.Equal(t, tensor.Shape{v.MaxSentenceLen() + 1, 2}, batch.Captions.Shape(),
		"captions must stack time-major")
	assert.Equal(t, tensor.Float32, batch.Videos.Dtype())
	assert.Equal(t, tensor.Int, batch.Captions.Dtype())
}

func TestCollatePreservesOrder(t *testing.T) {
	ds, _ := buildDataset(t, 4)
	l := NewLoader(ds, 2, WithWorkers(4))

	want0, err := ds.Get(1)
	require.NoError(t, err)
	want1, err := ds.Get(0)
	require.NoError(t, err)

	// Request in reverse; parallel fetches must not reorder the batch.
	batch, err := l.Collate(context.Background(), []int{1, 0})
	require.NoError(t, err)

	for b, want := range []Item{want0, want1} {
		for ti, idx := range want.Caption {
			got, err := batch.Captions.At(ti, b)
			require.NoError(t, err)
			assert.Equal(t, idx, got, "caption position %d of batch element %d", ti, b)
		}
		for fi, frame := range want.Frames {
			for di, v := range frame {
				got, err := batch.Videos.At(b, fi, di)
				require.NoError(t, err)
				assert.Equal(t, v, got)
			}
		}
	}
}

func TestCollateEmpty(t *testing.T) {
	ds, _ := buildDataset(t, 4)
	l := NewLoader(ds, 2)

	_, err := l.Collate(context.Background(), nil)
	assert.Error(t, err)
}

func TestCollateCancelled(t *testing.T) {
	ds, _ := buildDataset(t, 4)
	l := NewLoader(ds, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Collate(ctx, []int{0, 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEpoch(t *testing.T) {
	ds, _ := buildDataset(t, 4)
	l := NewLoader(ds, 1, WithWorkers(2))

	require.Equal(t, 2, l.Batches())

	var seen int
	err := l.Epoch(context.Background(), func(b *Batch) error {
		seen += b.Size()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, ds.Len(), seen)
}

func TestEpochPartialLastBatch(t *testing.T) {
	ds, _ := buildDataset(t, 4) // 2 examples
	l := NewLoader(ds, 3)

	require.Equal(t, 1, l.Batches())

	var sizes []int
	err := l.Epoch(context.Background(), func(b *Batch) error {
		sizes = append(sizes, b.Size())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, sizes)
}

func TestEpochShuffled(t *testing.T) {
	ds, _ := buildDataset(t, 4)
	l := NewLoader(ds, 1, WithShuffle(NewRand(1)))

	var seen int
	err := l.Epoch(context.Background(), func(b *Batch) error {
		seen += b.Size()
		return nil
	})
	require.NoError(t, err)
	// A shuffled epoch still visits every example exactly once.
	assert.Equal(t, ds.Len(), seen)
}
