package dataset

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Frame sampler names accepted by Config.FrameSampler.
const (
	SamplerUniform = "uniform"
	SamplerRandom  = "random"
	SamplerJitter  = "jitter"
)

// SplitConfig points one dataset split at its backing files. A split with
// both paths empty is skipped.
type SplitConfig struct {
	FeaturesPath string `yaml:"features_path"`
	CaptionsPath string `yaml:"captions_path"`
}

func (s SplitConfig) enabled() bool {
	return s.FeaturesPath != "" || s.CaptionsPath != ""
}

// Config drives the whole pipeline. Values come from a YAML file and the
// environment, with environment taking precedence.
type Config struct {
	// CaptionsPath is the full caption table the vocabulary is built from.
	CaptionsPath string `yaml:"captions_path" env:"VIDCAP_CAPTIONS_PATH"`

	Train SplitConfig `yaml:"train"`
	Val   SplitConfig `yaml:"val"`
	Test  SplitConfig `yaml:"test"`

	MinCount        int    `yaml:"min_count" env:"VIDCAP_MIN_COUNT" env-default:"1"`
	CaptionMaxWords int    `yaml:"caption_max_words" env:"VIDCAP_CAPTION_MAX_WORDS" env-default:"30"`
	FrameSampleLen  int    `yaml:"frame_sample_len" env:"VIDCAP_FRAME_SAMPLE_LEN" env-default:"28"`
	FrameSampler    string `yaml:"frame_sampler" env:"VIDCAP_FRAME_SAMPLER" env-default:"uniform"`
	BatchSize       int    `yaml:"batch_size" env:"VIDCAP_BATCH_SIZE" env-default:"100"`
	Shuffle         bool   `yaml:"shuffle" env:"VIDCAP_SHUFFLE" env-default:"true"`
	Workers         int    `yaml:"workers" env:"VIDCAP_WORKERS" env-default:"4"`
	Seed            int64  `yaml:"seed" env:"VIDCAP_SEED" env-default:"1"`
}

// LoadConfig reads configuration from a YAML file plus the environment.
// An empty path loads from environment and defaults only.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks field consistency.
func (c *Config) Validate() error {
	if c.CaptionsPath == "" {
		return fmt.Errorf("captions_path is required")
	}
	if c.MinCount < 1 {
		return fmt.Errorf("min_count must be >= 1, got %d", c.MinCount)
	}
	if c.CaptionMaxWords < 1 {
		return fmt.Errorf("caption_max_words must be >= 1, got %d", c.CaptionMaxWords)
	}
	if c.FrameSampleLen < 1 {
		return fmt.Errorf("frame_sample_len must be >= 1, got %d", c.FrameSampleLen)
	}
	switch c.FrameSampler {
	case SamplerUniform, SamplerRandom, SamplerJitter:
	default:
		return fmt.Errorf("frame_sampler must be one of %s|%s|%s, got %q",
			SamplerUniform, SamplerRandom, SamplerJitter, c.FrameSampler)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be >= 1, got %d", c.BatchSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	for _, split := range []struct {
		name string
		cfg  SplitConfig
	}{{"train", c.Train}, {"val", c.Val}, {"test", c.Test}} {
		if split.cfg.enabled() && (split.cfg.FeaturesPath == "" || split.cfg.CaptionsPath == "") {
			return fmt.Errorf("split %s needs both features_path and captions_path", split.name)
		}
	}
	return nil
}
