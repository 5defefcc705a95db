package filter

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := newTestingConfig()
	cfg.Topics = 1
	_, err := New(cfg)
	assert.Error(t, err)
}

// Two small documents, one particle, rejuvenation off: the vocabulary
// interns tokens densely in sighting order and every token ends up
// assigned to exactly one topic.
func TestEngineTwoDocuments(t *testing.T) {
	cfg := Config{
		Topics:            2,
		Alpha:             0.1,
		Beta:              0.1,
		ReservoirCapacity: 2,
		Particles:         1,
		ESSThreshold:      0,
		Seed:              1,
	}
	e, err := New(cfg)
	require.NoError(t, err)

	slot, err := e.IngestDocument([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 0, slot)

	slot, err = e.IngestDocument([]string{"a", "c"})
	require.NoError(t, err)
	assert.Equal(t, 1, slot)

	v := e.Vocabulary()
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, int32(0), v.Id("a"))
	assert.Equal(t, int32(1), v.Id("b"))
	assert.Equal(t, int32(2), v.Id("c"))

	p := e.Particles().Particle(0)
	assert.Equal(t, int64(4), p.Global().Total(0)+p.Global().Total(1))
	assert.Equal(t, int64(2), p.Document().Total())

	assertCountsConsistent(t, e)
	assertWeightsNormalized(t, e)
}

// Constant rejuvenation must move assignments around but never
// create or destroy them: three identical documents leave exactly
// nine assignments in every particle.
func TestEngineRejuvenationPreservesAssignments(t *testing.T) {
	cfg := Config{
		Topics:            2,
		Alpha:             0.1,
		Beta:              0.1,
		ReservoirCapacity: 8,
		Particles:         5,
		ESSThreshold:      200, // always at or above ESS, so every word rejuvenates
		RejuvBatch:        2,
		RejuvSteps:        1,
		Seed:              7,
	}
	e, err := New(cfg)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := e.IngestDocument([]string{"x", "y", "z"})
		require.NoError(t, err)
	}

	for pi := 0; pi < e.Particles().Len(); pi++ {
		p := e.Particles().Particle(pi)
		var total int64
		for topic := 0; topic < cfg.Topics; topic++ {
			for _, w := range []string{"x", "y", "z"} {
				total += p.Global().Count(e.Vocabulary().Id(w), topic)
			}
		}
		assert.Equal(t, int64(9), total, "particle %d", pi)
	}
	assertCountsConsistent(t, e)
}

func TestEngineEmptyDocument(t *testing.T) {
	e, err := New(newTestingConfig())
	require.NoError(t, err)

	slot, err := e.IngestDocument(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, slot, "empty documents still enter the reservoir")
	assert.Equal(t, int64(0), e.WordsSeen())
	assert.Equal(t, 0, e.Vocabulary().Len())
}

func TestEngineZeroCapacityReservoir(t *testing.T) {
	cfg := newTestingConfig()
	cfg.ReservoirCapacity = 0
	cfg.ESSThreshold = 100 // force the resample branch on every word
	e, err := New(cfg)
	require.NoError(t, err)

	slot, err := e.IngestDocument([]string{"a", "b", "a"})
	require.NoError(t, err)
	assert.Equal(t, NotRetained, slot)
	assertCountsConsistent(t, e)
}

// With equal weights ESS equals P, so a threshold below P never
// fires on the first word of a run.
func TestEngineSingleWordBoundary(t *testing.T) {
	cfg := newTestingConfig()
	cfg.ESSThreshold = float64(cfg.Particles) - 0.5
	e, err := New(cfg)
	require.NoError(t, err)

	_, err = e.IngestDocument([]string{"solo"})
	require.NoError(t, err)

	for pi := 0; pi < e.Particles().Len(); pi++ {
		p := e.Particles().Particle(pi)
		assert.Equal(t, int64(1), p.Document().Total())
	}
	assert.Equal(t, cfg.Particles, e.Particles().Store().Len(),
		"no resample fired, so the store holds only the root nodes")
}

func TestEngineDeterminism(t *testing.T) {
	cfg := Config{
		Topics:            3,
		Alpha:             0.1,
		Beta:              0.05,
		ReservoirCapacity: 4,
		Particles:         4,
		ESSThreshold:      3.9, // rejuvenate frequently
		RejuvBatch:        5,
		RejuvSteps:        2,
		Seed:              42,
	}
	docs := [][]string{
		{"river", "stream", "bank"},
		{"money", "loan", "bank"},
		{"bank", "bank", "loan", "money"},
		{"stream", "river", "river"},
		{"loan", "money", "money", "bank"},
		{"river", "bank", "stream", "stream"},
	}

	reports := make([]string, 2)
	for run := range reports {
		e, err := New(cfg)
		require.NoError(t, err)
		for _, doc := range docs {
			_, err := e.IngestDocument(doc)
			require.NoError(t, err)
		}
		var buf bytes.Buffer
		require.NoError(t, e.TopicReport(&buf))
		reports[run] = buf.String()
	}
	assert.Equal(t, reports[0], reports[1], "identical seed and input must reproduce the report byte for byte")
}

// A Steyvers-Griffiths style toy corpus: two ground-truth topics over
// five words, with "bank" shared between them.  After ingesting the
// shuffled corpus, the filter must assign the words of the pure
// "money" documents overwhelmingly to a single topic.
func TestEngineToyCorpusSeparatesTopics(t *testing.T) {
	moneyWords := []string{"bank", "money", "loan"}
	natureWords := []string{"river", "stream", "bank"}
	allWords := []string{"river", "stream", "bank", "money", "loan"}

	rng := rand.New(rand.NewSource(10))
	synth := func(words []string) []string {
		doc := make([]string, 16)
		for i := range doc {
			doc[i] = words[rng.Intn(len(words))]
		}
		return doc
	}

	type labeledDoc struct {
		tokens []string
		money  bool
	}
	var docs []labeledDoc
	for i := 0; i < 6; i++ {
		docs = append(docs, labeledDoc{synth(moneyWords), true})
	}
	for i := 0; i < 6; i++ {
		docs = append(docs, labeledDoc{synth(allWords), false})
	}
	for i := 0; i < 4; i++ {
		docs = append(docs, labeledDoc{synth(natureWords), false})
	}

	shuffler := rand.New(rand.NewSource(10))
	shuffler.Shuffle(len(docs), func(i, j int) {
		docs[i], docs[j] = docs[j], docs[i]
	})

	cfg := Config{
		Topics:            2,
		Alpha:             0.1,
		Beta:              0.1,
		ReservoirCapacity: 16,
		Particles:         5,
		ESSThreshold:      2,
		RejuvBatch:        100,
		RejuvSteps:        20,
		Seed:              10,
	}
	e, err := New(cfg)
	require.NoError(t, err)

	var moneySlots []int
	for _, doc := range docs {
		slot, err := e.IngestDocument(doc.tokens)
		require.NoError(t, err)
		if doc.money {
			moneySlots = append(moneySlots, slot)
		}
	}
	require.Len(t, moneySlots, 6)
	assertCountsConsistent(t, e)

	// For each particle, the dominant topic's share over all tokens
	// of the money-only documents; averaged across particles it must
	// reach 80%.
	var avgShare float64
	for pi := 0; pi < e.Particles().Len(); pi++ {
		counts := make([]int, cfg.Topics)
		for _, slot := range moneySlots {
			labels, err := e.DocumentLabels(slot)
			require.NoError(t, err)
			for _, z := range labels[pi] {
				counts[z]++
			}
		}
		best, total := 0, 0
		for _, c := range counts {
			if c > best {
				best = c
			}
			total += c
		}
		avgShare += float64(best) / float64(total)
	}
	avgShare /= float64(e.Particles().Len())
	assert.GreaterOrEqual(t, avgShare, 0.8,
		"money documents should concentrate on one topic, got %.3f", avgShare)
}

func TestEngineDocumentLabels(t *testing.T) {
	cfg := newTestingConfig()
	e, err := New(cfg)
	require.NoError(t, err)

	slot, err := e.IngestDocument([]string{"a", "b", "c"})
	require.NoError(t, err)

	labels, err := e.DocumentLabels(slot)
	require.NoError(t, err)
	require.Len(t, labels, cfg.Particles)
	for _, perParticle := range labels {
		require.Len(t, perParticle, 3)
		for _, z := range perParticle {
			assert.GreaterOrEqual(t, z, int32(0))
			assert.Less(t, z, int32(cfg.Topics))
		}
	}

	_, err = e.DocumentLabels(5)
	assert.Error(t, err)
	_, err = e.DocumentLabels(NotRetained)
	assert.Error(t, err)
}
