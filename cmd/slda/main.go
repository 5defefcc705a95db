// Command slda runs online LDA inference over a corpus with a
// Rao-Blackwellized particle filter and prints the learned topics.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hausdorff/slda/core/corpus"
	"github.com/hausdorff/slda/core/filter"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		corpusPath string
		outputPath string
		topics     int
		particles  int
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "slda",
		Short: "Online topic inference with a particle filter",
		Long: `slda ingests a corpus one document at a time, maintaining a
population of weighted topic-assignment hypotheses that are resampled
and rejuvenated as the stream runs, and reports the topics it found.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("corpus") {
				cfg.Corpus = corpusPath
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = outputPath
			}
			if cmd.Flags().Changed("topics") {
				cfg.Engine.Topics = topics
			}
			if cmd.Flags().Changed("particles") {
				cfg.Engine.Particles = particles
			}
			if cmd.Flags().Changed("seed") {
				cfg.Engine.Seed = seed
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			setupLogging(cfg.Logging)
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "corpus file, one document per line")
	cmd.Flags().StringVar(&outputPath, "output", "", "topic report destination (default stdout)")
	cmd.Flags().IntVar(&topics, "topics", 0, "number of topics")
	cmd.Flags().IntVar(&particles, "particles", 0, "number of particles")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	return cmd
}

func run(cfg *appConfig) error {
	docs, err := loadCorpus(cfg)
	if err != nil {
		return err
	}
	if cfg.Shuffle {
		corpus.Shuffle(docs, cfg.Engine.Seed)
	}
	slog.Info("corpus loaded", "documents", len(docs), "shuffle", cfg.Shuffle)

	opts := []filter.Option{filter.WithLogger(slog.Default())}
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, filter.WithMetrics(filter.NewMetrics(reg)))
		go serveMetrics(cfg.MetricsAddr, reg)
	}
	engine, err := filter.New(cfg.Engine, opts...)
	if err != nil {
		return err
	}

	for i, doc := range docs {
		if _, err := engine.IngestDocument(doc); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		if (i+1)%1000 == 0 {
			slog.Info("progress",
				"documents", i+1,
				"vocabulary", engine.Vocabulary().Len(),
				"words", engine.WordsSeen(),
			)
		}
	}

	return writeReport(engine, cfg.Output)
}

func loadCorpus(cfg *appConfig) ([][]string, error) {
	stop := corpus.Stopwords{}
	if cfg.Stopwords != "" {
		r, err := corpus.Open(cfg.Stopwords)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		if stop, err = corpus.LoadStopwords(r); err != nil {
			return nil, fmt.Errorf("reading stop words %s: %w", cfg.Stopwords, err)
		}
	}

	r, err := corpus.Open(cfg.Corpus)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	docs, err := corpus.ReadDocuments(r, stop)
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", cfg.Corpus, err)
	}
	return docs, nil
}

func writeReport(engine *filter.Engine, output string) error {
	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating report %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}
	return engine.TopicReport(w)
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("metrics server failed", "addr", addr, "error", err)
	}
}
