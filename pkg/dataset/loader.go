package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"
	"gorgonia.org/tensor"
)

// Batch is one collated chunk of examples.
//
// Videos is float32 with shape [batch, frameLen, featureDim]. Captions is
// int with shape [captionLen, batch]: time-major, the layout the decoder
// side of a captioning model consumes.
type Batch struct {
	Videos   *tensor.Dense
	Captions *tensor.Dense
	ClipIDs  []string
}

// Size returns the number of examples in the batch.
func (b *Batch) Size() int {
	return len(b.ClipIDs)
}

// Loader iterates a Dataset in batches, optionally shuffling the example
// order each epoch and fetching examples with a bounded worker pool.
type Loader struct {
	ds        *Dataset
	batchSize int
	workers   int
	rng       *rand.Rand // nil means no shuffling
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithShuffle enables a fresh random permutation per epoch.
func WithShuffle(rng *rand.Rand) LoaderOption {
	return func(l *Loader) { l.rng = rng }
}

// WithWorkers bounds the number of concurrent example fetches during
// collation. The default is 1 (sequential).
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// NewLoader creates a Loader over a built dataset.
func NewLoader(ds *Dataset, batchSize int, opts ...LoaderOption) *Loader {
	l := &Loader{ds: ds, batchSize: batchSize, workers: 1}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Len returns the example count of the underlying dataset.
func (l *Loader) Len() int {
	return l.ds.Len()
}

// Batches returns the number of batches per epoch. The last partial batch
// counts.
func (l *Loader) Batches() int {
	return (l.ds.Len() + l.batchSize - 1) / l.batchSize
}

// Collate fetches the examples at the given dataset indices and stacks
// them into one Batch. Fetches run on up to the configured number of
// workers; the assembled batch preserves the requested index order
// regardless of completion order.
func (l *Loader) Collate(ctx context.Context, indices []int) (*Batch, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("collate: empty index list")
	}

	items := make([]Item, len(indices))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, idx := range indices {
		i, idx := i, idx
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := l.ds.Get(idx)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return stack(items)
}

// stack assembles fetched items into batch tensors. All items must share
// one frame shape and one caption length; the upstream transforms
// guarantee that for a single pipeline configuration.
func stack(items []Item) (*Batch, error) {
	n := len(items)
	frameLen := len(items[0].Frames)
	featDim := len(items[0].Frames[0])
	capLen := len(items[0].Caption)

	videos := make([]float32, 0, n*frameLen*featDim)
	captions := make([]int, capLen*n)
	clipIDs := make([]string, n)

	for b, item := range items {
		if len(item.Frames) != frameLen || len(item.Frames[0]) != featDim {
			return nil, fmt.Errorf("collate: clip %s has frame shape [%d %d], batch expects [%d %d]",
				item.ClipID, len(item.Frames), len(item.Frames[0]), frameLen, featDim)
		}
		if len(item.Caption) != capLen {
			return nil, fmt.Errorf("collate: clip %s has caption length %d, batch expects %d",
				item.ClipID, len(item.Caption), capLen)
		}
		for _, frame := range item.Frames {
			videos = append(videos, frame...)
		}
		for t, idx := range item.Caption {
			captions[t*n+b] = idx
		}
		clipIDs[b] = item.ClipID
	}

	return &Batch{
		Videos:   tensor.New(tensor.WithShape(n, frameLen, featDim), tensor.WithBacking(videos)),
		Captions: tensor.New(tensor.WithShape(capLen, n), tensor.WithBacking(captions)),
		ClipIDs:  clipIDs,
	}, nil
}

// Epoch runs fn once per batch over a full pass of the dataset, in order.
// With shuffling enabled the pass follows a fresh permutation. The context
// cancels in-flight collation; the first error stops the epoch.
func (l *Loader) Epoch(ctx context.Context, fn func(*Batch) error) error {
	order := make([]int, l.ds.Len())
	for i := range order {
		order[i] = i
	}
	if l.rng != nil {
		l.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	for start := 0; start < len(order); start += l.batchSize {
		end := start + l.batchSize
		if end > len(order) {
			end = len(order)
		}
		batch, err := l.Collate(ctx, order[start:end])
		if err != nil {
			return err
		}
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}

// lockedSource makes a rand.Source safe for the concurrent example fetches
// that the random and jitter frame samplers run under.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// NewRand returns a rand.Rand whose source is mutex-guarded, for sharing
// between the shuffler and concurrent sampling transforms.
func NewRand(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed).(rand.Source64)})
}
