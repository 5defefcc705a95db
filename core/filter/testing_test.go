package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testingTopics = 2
	testingAlpha  = 0.1
	testingBeta   = 0.1
)

func newTestingConfig() Config {
	return Config{
		Topics:            testingTopics,
		Alpha:             testingAlpha,
		Beta:              testingBeta,
		ReservoirCapacity: 8,
		Particles:         5,
		ESSThreshold:      0,
		RejuvBatch:        2,
		RejuvSteps:        1,
		Seed:              1,
	}
}

// assertCountsConsistent checks the per-step invariants of every
// particle: the document total equals the sum of its per-topic
// counts, and every per-topic global total equals the sum of that
// topic's counts across all words.
func assertCountsConsistent(t *testing.T, e *Engine) {
	t.Helper()
	for pi := 0; pi < e.Particles().Len(); pi++ {
		p := e.Particles().Particle(pi)

		var docSum int64
		for topic := 0; topic < e.Config().Topics; topic++ {
			docSum += p.Document().At(topic)
		}
		require.Equal(t, p.Document().Total(), docSum, "particle %d document counts", pi)

		for topic := 0; topic < e.Config().Topics; topic++ {
			var wordSum int64
			for w := 0; w < p.Global().Words(); w++ {
				wordSum += p.Global().Count(int32(w), topic)
			}
			require.Equal(t, p.Global().Total(topic), wordSum,
				"particle %d topic %d global counts", pi, topic)
		}
	}
}

func assertWeightsNormalized(t *testing.T, e *Engine) {
	t.Helper()
	var sum float64
	for _, w := range e.Particles().Weights() {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
