package filter

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes the progress of a run to a prometheus scrape.
type Metrics struct {
	DocumentsTotal    prometheus.Counter
	WordsTotal        prometheus.Counter
	ResamplesTotal    prometheus.Counter
	RejuvenationMoves prometheus.Counter
	EffectiveSamples  prometheus.Gauge
	VocabularySize    prometheus.Gauge
}

// NewMetrics builds the metric set and registers it on reg.  A nil
// reg falls back to the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slda_documents_ingested_total",
			Help: "Documents fed through the particle filter.",
		}),
		WordsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slda_words_observed_total",
			Help: "Word observations across all documents.",
		}),
		ResamplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slda_resample_events_total",
			Help: "Times the population was resampled after an ESS drop.",
		}),
		RejuvenationMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slda_rejuvenation_moves_total",
			Help: "Reservoir assignments changed by rejuvenation sweeps.",
		}),
		EffectiveSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "slda_effective_sample_size",
			Help: "ESS after the most recent word observation.",
		}),
		VocabularySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "slda_vocabulary_size",
			Help: "Distinct tokens interned so far.",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.DocumentsTotal,
		m.WordsTotal,
		m.ResamplesTotal,
		m.RejuvenationMoves,
		m.EffectiveSamples,
		m.VocabularySize,
	)
	return m
}
