package filter

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

type wordProb struct {
	token string
	prob  float64
}

// writeTopicReport prints each topic of each particle as words with
// P(w|z) in descending order.  Every vocabulary word appears;
// unobserved words carry the smoothing mass beta/(n_t + W*beta).
func writeTopicReport(w io.Writer, e *Engine) error {
	bw := bufio.NewWriter(w)
	vocabSize := e.vocab.Len()
	for pi := 0; pi < e.ps.Len(); pi++ {
		p := e.ps.Particle(pi)
		for t := 0; t < e.cfg.Topics; t++ {
			fmt.Fprintf(bw, "particle %05d topic %05d Nt %05d:\n",
				pi, t, p.global.Total(t))
			for _, wp := range topicWordProbs(p, t, e.vocab, vocabSize) {
				fmt.Fprintf(bw, "\t(%.6f, %s)\n", wp.prob, wp.token)
			}
		}
	}
	return bw.Flush()
}

func topicWordProbs(p *Particle, topic int, vocab *Vocabulary, vocabSize int) []wordProb {
	denom := float64(p.global.Total(topic)) + float64(vocabSize)*p.beta
	probs := make([]wordProb, vocabSize)
	for w := 0; w < vocabSize; w++ {
		probs[w] = wordProb{
			token: vocab.Token(int32(w)),
			prob:  (float64(p.global.Count(int32(w), topic)) + p.beta) / denom,
		}
	}
	sort.Slice(probs, func(i, j int) bool {
		if probs[i].prob != probs[j].prob {
			return probs[i].prob > probs[j].prob
		}
		return probs[i].token < probs[j].token
	})
	return probs
}
