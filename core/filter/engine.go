package filter

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/hausdorff/slda/core/reservoir"
)

// Engine runs Rao-Blackwellized particle filtering for LDA over a
// stream of documents, after Canini, Shi and Griffiths, "Online
// Inference of Topics with Latent Dirichlet Allocation".  Documents
// are ingested one at a time; each word reweights the particle
// population, extends every hypothesis by one sampled topic, and,
// when the effective sample size collapses, triggers resampling plus
// MCMC rejuvenation over a reservoir of past documents.
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	vocab  *Vocabulary
	res    *reservoir.Reservoir[[]string]
	ps     *ParticleStore
	logger *slog.Logger

	wordsSeen int64
	metrics   *Metrics
}

// Option configures an Engine beyond its Config.
type Option func(*Engine)

// WithLogger attaches a structured logger.  Without one the engine is
// silent.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches a metric set.  Without one nothing is
// recorded.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New validates cfg and builds an engine with P uniformly weighted
// particles and an empty reservoir.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	e := &Engine{
		cfg:    cfg,
		rng:    rng,
		vocab:  NewVocabulary(),
		res:    reservoir.New[[]string](cfg.ReservoirCapacity, rng),
		ps:     NewParticleStore(cfg.Particles, cfg.Topics, cfg.Alpha, cfg.Beta, cfg.ReservoirCapacity, rng),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Vocabulary returns the intern table.
func (e *Engine) Vocabulary() *Vocabulary {
	return e.vocab
}

// Particles returns the particle store for read access.
func (e *Engine) Particles() *ParticleStore {
	return e.ps
}

// WordsSeen returns the number of word observations so far.
func (e *Engine) WordsSeen() int64 {
	return e.wordsSeen
}

// IngestDocument feeds one tokenized document through the filter and
// returns the reservoir slot it was retained in, or
// reservoir.NotRetained.  Ingestion is all-or-nothing at document
// granularity: a mid-document failure leaves the engine poisoned for
// this document, and the caller may stop or move on to the next one.
func (e *Engine) IngestDocument(tokens []string) (int, error) {
	doc := append([]string(nil), tokens...)
	slot := e.res.Add(doc)
	e.ps.StartDocumentAll(slot)

	for i, token := range doc {
		w := e.vocab.Intern(token)
		e.wordsSeen++

		e.ps.ReweightAll(w, e.vocab.Len())
		if err := e.ps.TransitionAll(i, w, slot, e.vocab.Len()); err != nil {
			return slot, err
		}
		if err := e.ps.NormalizeWeights(); err != nil {
			return slot, err
		}

		ess := e.ps.ESS()
		if e.metrics != nil {
			e.metrics.EffectiveSamples.Set(ess)
		}
		if ess <= e.cfg.ESSThreshold {
			if err := e.rejuvenate(slot, i+1); err != nil {
				return slot, err
			}
		}
	}

	e.logger.Debug("document ingested",
		"slot", slot,
		"length", len(doc),
		"vocabulary", e.vocab.Len(),
		"words_seen", e.wordsSeen,
	)
	if e.metrics != nil {
		e.metrics.DocumentsTotal.Inc()
		e.metrics.WordsTotal.Add(float64(len(doc)))
		e.metrics.VocabularySize.Set(float64(e.vocab.Len()))
	}
	return slot, nil
}

// rejuvenate resamples the population and runs the configured number
// of MCMC sweeps over the retained word positions.  observed is the
// number of words of the in-flight document seen so far; only that
// prefix participates.
func (e *Engine) rejuvenate(cur, observed int) error {
	if err := e.ps.Resample(); err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.ResamplesTotal.Inc()
	}

	docs, positions := e.reservoirPositions(cur, observed)
	moves := 0
	for m := 0; m < e.cfg.RejuvSteps; m++ {
		n, err := e.ps.RejuvenateAll(docs, positions, e.cfg.RejuvBatch, cur, e.vocab.Len())
		moves += n
		if err != nil {
			return err
		}
	}
	e.ps.UniformReweightAll()

	e.logger.Debug("rejuvenated",
		"positions", len(positions),
		"moves", moves,
	)
	if e.metrics != nil {
		e.metrics.RejuvenationMoves.Add(float64(moves))
	}
	return nil
}

// reservoirPositions lists every retained word position, with the
// in-flight document at slot cur contributing only its observed
// prefix.  Documents come back as word ids, indexed by slot.
func (e *Engine) reservoirPositions(cur, observed int) ([][]int32, []Position) {
	docs := make([][]int32, e.res.Occupied())
	var positions []Position
	for d := range docs {
		tokens := e.res.Get(d)
		n := len(tokens)
		if d == cur && observed < n {
			n = observed
		}
		ids := make([]int32, n)
		for i := 0; i < n; i++ {
			ids[i] = e.vocab.Id(tokens[i])
		}
		docs[d] = ids
		for i := 0; i < n; i++ {
			positions = append(positions, Position{Doc: d, Idx: i})
		}
	}
	// Early-run safeguard: never hand rejuvenation more positions
	// than words observed.
	if int64(len(positions)) > e.wordsSeen {
		positions = positions[:e.wordsSeen]
	}
	return docs, positions
}

// DocumentLabels returns, for each particle, the topic assigned to
// every word of the retained document in the given slot.
func (e *Engine) DocumentLabels(slot int) ([][]int32, error) {
	if slot < 0 || slot >= e.res.Occupied() {
		return nil, fmt.Errorf("slot %d not occupied", slot)
	}
	n := len(e.res.Get(slot))
	labels := make([][]int32, e.ps.Len())
	for pi := range labels {
		p := e.ps.Particle(pi)
		labels[pi] = make([]int32, n)
		for i := 0; i < n; i++ {
			labels[pi][i] = e.ps.Store().Get(p.node, slot, i)
		}
	}
	return labels, nil
}

// TopicReport writes the plain-text topic report: for every particle
// and topic, one header line followed by indented (probability, word)
// lines in descending probability, ties broken lexically.  The output
// is byte-identical across runs with the same seed and input.
func (e *Engine) TopicReport(w io.Writer) error {
	return writeTopicReport(w, e)
}
