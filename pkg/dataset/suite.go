package dataset

import (
	"fmt"
	"math/rand"

	"vidcap/pkg/textnorm"
	"vidcap/pkg/transform"
	"vidcap/pkg/vocab"
)

// Suite is the fully wired pipeline: one vocabulary built from the full
// caption corpus, shared by the per-split loaders. Splits without
// configured paths are nil.
type Suite struct {
	Vocab *vocab.Vocabulary
	Train *Loader
	Val   *Loader
	Test  *Loader
}

// BuildSuite constructs the vocabulary and every configured split from a
// validated Config. The sentence normalizer is shared between vocabulary
// construction and caption encoding, so both see identical tokens.
func BuildSuite(cfg *Config) (*Suite, error) {
	norm := textnorm.New(cfg.CaptionMaxWords)

	corpus, err := ReadCaptions(cfg.CaptionsPath)
	if err != nil {
		return nil, err
	}

	builder := vocab.NewBuilder(norm, cfg.MinCount)
	builder.AddAll(corpus.Texts())
	v := builder.Build()

	encoder, err := transform.NewEncoder(norm, v)
	if err != nil {
		return nil, err
	}

	rng := NewRand(cfg.Seed)
	frameT, err := frameTransform(cfg, rng)
	if err != nil {
		return nil, err
	}

	suite := &Suite{Vocab: v}
	for _, split := range []struct {
		cfg    SplitConfig
		loader **Loader
	}{
		{cfg.Train, &suite.Train},
		{cfg.Val, &suite.Val},
		{cfg.Test, &suite.Test},
	} {
		if !split.cfg.enabled() {
			continue
		}
		loader, err := buildLoader(cfg, split.cfg, frameT, encoder, rng)
		if err != nil {
			return nil, err
		}
		*split.loader = loader
	}

	return suite, nil
}

func frameTransform(cfg *Config, rng *rand.Rand) (transform.FrameTransform, error) {
	var sampler transform.FrameTransform
	switch cfg.FrameSampler {
	case SamplerUniform:
		sampler = transform.UniformSample(cfg.FrameSampleLen)
	case SamplerRandom:
		sampler = transform.RandomSample(cfg.FrameSampleLen, rng)
	case SamplerJitter:
		sampler = transform.UniformJitterSample(cfg.FrameSampleLen, rng)
	default:
		return nil, fmt.Errorf("unknown frame sampler %q", cfg.FrameSampler)
	}
	return transform.ChainFrames(sampler, transform.ZeroPadIfLessThan(cfg.FrameSampleLen)), nil
}

func buildLoader(cfg *Config, split SplitConfig, frameT transform.FrameTransform, encoder *transform.Encoder, rng *rand.Rand) (*Loader, error) {
	store, err := OpenFeatureStore(split.FeaturesPath)
	if err != nil {
		return nil, err
	}
	captions, err := ReadCaptions(split.CaptionsPath)
	if err != nil {
		return nil, err
	}

	ds := New(store, captions, frameT, encoder)

	opts := []LoaderOption{WithWorkers(cfg.Workers)}
	if cfg.Shuffle {
		opts = append(opts, WithShuffle(rng))
	}
	return NewLoader(ds, cfg.BatchSize, opts...), nil
}
