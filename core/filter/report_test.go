package filter

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingestTestingCorpus(t *testing.T) *Engine {
	t.Helper()
	e, err := New(newTestingConfig())
	require.NoError(t, err)
	for _, doc := range [][]string{
		{"river", "bank", "stream"},
		{"money", "bank", "loan"},
	} {
		_, err := e.IngestDocument(doc)
		require.NoError(t, err)
	}
	return e
}

func TestTopicReportFormat(t *testing.T) {
	e := ingestTestingCorpus(t)

	var buf bytes.Buffer
	require.NoError(t, e.TopicReport(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	cfg := e.Config()
	vocab := e.Vocabulary().Len()
	require.Equal(t, cfg.Particles*cfg.Topics*(1+vocab), len(lines))

	assert.True(t, strings.HasPrefix(lines[0], "particle 00000 topic 00000"))
	assert.True(t, strings.HasPrefix(lines[1], "\t("))

	// Within a topic block the probabilities are non-increasing.
	var prev float64 = 2
	for _, line := range lines[1 : 1+vocab] {
		var prob float64
		var word string
		_, err := fmt.Sscanf(line, "\t(%f, %s", &prob, &word)
		require.NoError(t, err, "line %q", line)
		assert.LessOrEqual(t, prob, prev, "line %q", line)
		prev = prob
	}
}

func TestTopicReportDeterministic(t *testing.T) {
	var first string
	for run := 0; run < 2; run++ {
		e := ingestTestingCorpus(t)
		var buf bytes.Buffer
		require.NoError(t, e.TopicReport(&buf))
		if run == 0 {
			first = buf.String()
		} else {
			assert.Equal(t, first, buf.String())
		}
	}
}

func TestDescribeTopics(t *testing.T) {
	e := ingestTestingCorpus(t)

	descs, err := e.DescribeTopics(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, descs, e.Config().Particles)

	for _, particleDescs := range descs {
		require.Len(t, particleDescs, e.Config().Topics)
		var total int64
		for topic, desc := range particleDescs {
			assert.Equal(t, topic, desc.Topic)
			assert.LessOrEqual(t, len(desc.Tokens), 3)
			total += desc.Nt
			for i := 1; i < len(desc.Tokens); i++ {
				assert.GreaterOrEqual(t, desc.Tokens[i-1].Count, desc.Tokens[i].Count)
			}
		}
		assert.Equal(t, int64(6), total, "six words observed in total")
	}
}
