package filter

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hausdorff/slda/core/hist"
)

// TopicDesc summarizes one topic of one particle: its total mass and
// its heaviest words.
type TopicDesc struct {
	Topic  int
	Nt     int64
	Tokens []TokenDesc
}

// TokenDesc is one word of a topic description with its assignment
// count.
type TokenDesc struct {
	Token string
	Count int64
}

// DescribeTopics builds topic descriptions for every particle, at
// most maxWordsPerTopic words each.  Particles are described
// concurrently; their counts are disjoint and immutable between
// ingests, so no locking is needed.
func (e *Engine) DescribeTopics(ctx context.Context, maxWordsPerTopic int) ([][]TopicDesc, error) {
	descs := make([][]TopicDesc, e.ps.Len())
	g, _ := errgroup.WithContext(ctx)
	for pi := 0; pi < e.ps.Len(); pi++ {
		g.Go(func() error {
			descs[pi] = describeParticle(e.ps.Particle(pi), e.cfg.Topics, e.vocab, maxWordsPerTopic)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return descs, nil
}

func describeParticle(p *Particle, topics int, vocab *Vocabulary, maxWords int) []TopicDesc {
	descs := make([]TopicDesc, topics)
	for t := 0; t < topics; t++ {
		words := hist.NewSparse()
		for w := 0; w < p.global.Words(); w++ {
			if c := p.global.Count(int32(w), t); c > 0 {
				words[int32(w)] = int32(c)
			}
		}
		desc := TopicDesc{Topic: t, Nt: p.global.Total(t)}
		ordered := hist.NewOrderedSparse().Assign(words)
		ordered.ForEach(func(word int, count int64) error {
			if len(desc.Tokens) < maxWords {
				desc.Tokens = append(desc.Tokens, TokenDesc{
					Token: vocab.Token(int32(word)),
					Count: count,
				})
			}
			return nil
		})
		descs[t] = desc
	}
	return descs
}
