// Command dataprep builds the captioning vocabulary and dataset splits
// from a pipeline config and reports their statistics.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"vidcap/pkg/dataset"
	"vidcap/pkg/vocab"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (environment-only when empty)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := dataset.LoadConfig(*configPath)
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	suite, err := dataset.BuildSuite(cfg)
	if err != nil {
		logger.Error("build pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	stats := suite.Vocab.Stats()
	logger.Info("vocabulary built",
		slog.Int("size", suite.Vocab.Len()),
		slog.Int("min_count", suite.Vocab.MinCount()),
		slog.Int("max_sentence_len", suite.Vocab.MaxSentenceLen()),
		slog.Int("distinct_words", stats.DistinctWords),
		slog.Int("total_words", stats.TotalWords),
		slog.Int("distinct_kept", stats.DistinctKept),
		slog.Int("total_kept", stats.TotalKept),
	)

	fmt.Printf("Vocabulary: %d entries (kept %d of %d distinct words, %.1f%% of occurrences)\n",
		suite.Vocab.Len(), stats.DistinctKept, stats.DistinctWords, keptShare(stats))

	splits := []struct {
		name   string
		loader *dataset.Loader
	}{
		{"train", suite.Train},
		{"val", suite.Val},
		{"test", suite.Test},
	}
	for _, split := range splits {
		if split.loader == nil {
			continue
		}
		logger.Info("split ready",
			slog.String("split", split.name),
			slog.Int("examples", split.loader.Len()),
			slog.Int("batches", split.loader.Batches()),
		)
	}
}

func keptShare(stats vocab.Stats) float64 {
	if stats.TotalWords == 0 {
		return 0
	}
	return 100 * float64(stats.TotalKept) / float64(stats.TotalWords)
}
