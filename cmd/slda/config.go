package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hausdorff/slda/core/filter"
)

// appConfig is the YAML-loadable configuration of a run.  Flags
// override individual fields after loading.
type appConfig struct {
	// Corpus is the input file: one document per line, tokens
	// separated by whitespace.  .gz and .zst files are decompressed
	// transparently.
	Corpus string `yaml:"corpus"`

	// Stopwords is an optional stop-word list, one word per line.
	Stopwords string `yaml:"stopwords"`

	// Output receives the topic report; empty means stdout.
	Output string `yaml:"output"`

	// Shuffle permutes the corpus with the engine seed before
	// ingestion.
	Shuffle bool `yaml:"shuffle"`

	// MetricsAddr, when set, serves prometheus metrics on
	// addr/metrics for the duration of the run.
	MetricsAddr string `yaml:"metricsAddr"`

	Logging loggingConfig `yaml:"logging"`
	Engine  filter.Config `yaml:"engine"`
}

type loggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultConfig() *appConfig {
	return &appConfig{
		Shuffle: true,
		Logging: loggingConfig{Level: "info", Format: "text"},
		Engine: filter.Config{
			Topics:            10,
			Alpha:             0.1,
			Beta:              0.1,
			ReservoirCapacity: 1000,
			Particles:         100,
			ESSThreshold:      20,
			RejuvBatch:        30,
			RejuvSteps:        1,
			Seed:              1,
		},
	}
}

func loadConfig(path string) (*appConfig, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	return cfg, nil
}

func (c *appConfig) validate() error {
	if c.Corpus == "" {
		return fmt.Errorf("corpus file must be specified")
	}
	return c.Engine.Validate()
}
