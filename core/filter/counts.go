package filter

import "github.com/hausdorff/slda/core/hist"

// DocumentCounts tallies, for one document and one particle, how many
// of the document's words are assigned to each topic.
type DocumentCounts struct {
	topics hist.Dense
	total  int64
}

func NewDocumentCounts(numTopics int) *DocumentCounts {
	return &DocumentCounts{topics: hist.NewDense(numTopics)}
}

// Add records one word assigned to topic.
func (c *DocumentCounts) Add(topic int) {
	c.topics.Inc(topic)
	c.total++
}

// ResampleUpdate moves one word from oldTopic to newTopic, leaving
// the total unchanged.  The decrement saturates at zero.  Updating a
// topic to itself is a no-op.
func (c *DocumentCounts) ResampleUpdate(oldTopic, newTopic int) {
	if oldTopic == newTopic {
		return
	}
	if c.topics.At(oldTopic) > 0 {
		c.topics.Dec(oldTopic)
	}
	c.topics.Inc(newTopic)
}

// At returns the count of topic.
func (c *DocumentCounts) At(topic int) int64 {
	return c.topics.At(topic)
}

// Total returns the number of words counted so far.
func (c *DocumentCounts) Total() int64 {
	return c.total
}

// NumTopics returns T.
func (c *DocumentCounts) NumTopics() int {
	return c.topics.Len()
}

// Hist exposes the read side of the per-topic counts.
func (c *DocumentCounts) Hist() hist.Hist {
	return c.topics
}

// Clone returns a deep copy.
func (c *DocumentCounts) Clone() *DocumentCounts {
	return &DocumentCounts{
		topics: c.topics.Clone().(hist.Dense),
		total:  c.total,
	}
}

// GlobalCounts tallies word-topic assignments across every document a
// particle has observed.  Word histograms are sparse and allocated
// lazily because the vocabulary grows as the stream runs; per-topic
// totals are dense.
type GlobalCounts struct {
	wordTopics []hist.Sparse
	topics     hist.Dense
}

func NewGlobalCounts(numTopics int) *GlobalCounts {
	return &GlobalCounts{topics: hist.NewDense(numTopics)}
}

// Add records one occurrence of word assigned to topic.
func (c *GlobalCounts) Add(word int32, topic int) {
	c.wordHist(word).Inc(topic)
	c.topics.Inc(topic)
}

// ResampleUpdate moves one occurrence of word from oldTopic to
// newTopic.  Decrements saturate: a zero count stays zero and its key
// stays absent.  Updating a topic to itself is a no-op.
func (c *GlobalCounts) ResampleUpdate(word int32, oldTopic, newTopic int) {
	if oldTopic == newTopic {
		return
	}
	h := c.wordHist(word)
	if h.At(oldTopic) > 0 {
		h.Dec(oldTopic)
	}
	if c.topics.At(oldTopic) > 0 {
		c.topics.Dec(oldTopic)
	}
	h.Inc(newTopic)
	c.topics.Inc(newTopic)
}

// Count returns the number of occurrences of word assigned to topic.
// Words never counted read as zero.
func (c *GlobalCounts) Count(word int32, topic int) int64 {
	if int(word) >= len(c.wordTopics) || c.wordTopics[word] == nil {
		return 0
	}
	return c.wordTopics[word].At(topic)
}

// Total returns the number of assignments to topic across all words.
func (c *GlobalCounts) Total(topic int) int64 {
	return c.topics.At(topic)
}

// NumTopics returns T.
func (c *GlobalCounts) NumTopics() int {
	return c.topics.Len()
}

// WordHist returns the read side of word's topic histogram, or nil
// when the word has no assignments.
func (c *GlobalCounts) WordHist(word int32) hist.Hist {
	if int(word) >= len(c.wordTopics) || c.wordTopics[word] == nil {
		return nil
	}
	return c.wordTopics[word]
}

// Words returns the extent of the word table.  Ids at or beyond it
// have never been counted.
func (c *GlobalCounts) Words() int {
	return len(c.wordTopics)
}

// Clone returns a deep copy of the word table and the totals.
func (c *GlobalCounts) Clone() *GlobalCounts {
	n := &GlobalCounts{
		wordTopics: make([]hist.Sparse, len(c.wordTopics)),
		topics:     c.topics.Clone().(hist.Dense),
	}
	for w, h := range c.wordTopics {
		if h != nil {
			n.wordTopics[w] = h.Clone().(hist.Sparse)
		}
	}
	return n
}

func (c *GlobalCounts) wordHist(word int32) hist.Sparse {
	for int(word) >= len(c.wordTopics) {
		c.wordTopics = append(c.wordTopics, nil)
	}
	if c.wordTopics[word] == nil {
		c.wordTopics[word] = hist.NewSparse()
	}
	return c.wordTopics[word]
}
