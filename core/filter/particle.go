package filter

import (
	"fmt"
	"math/rand"

	"github.com/hausdorff/slda/core/sampling"
)

// Position names one word of one retained document: the reservoir
// slot the document occupies and the word's index within it.
type Position struct {
	Doc int
	Idx int
}

// Particle is a single hypothesis about the topic of every word
// observed so far, together with the counts that summarize it and a
// weight measuring how well the hypothesis explains the stream.
type Particle struct {
	weight float64
	global *GlobalCounts
	doc    *DocumentCounts
	node   int32

	topics      int
	alpha, beta float64

	post []float64 // scratch posterior, reused across words
}

func newParticle(topics int, alpha, beta, weight float64, node int32) *Particle {
	return &Particle{
		weight: weight,
		global: NewGlobalCounts(topics),
		doc:    NewDocumentCounts(topics),
		node:   node,
		topics: topics,
		alpha:  alpha,
		beta:   beta,
		post:   make([]float64, topics),
	}
}

// Weight returns the particle's current (possibly unnormalized)
// weight.
func (p *Particle) Weight() float64 {
	return p.weight
}

// Global exposes the particle's word-topic counts for reporting.
func (p *Particle) Global() *GlobalCounts {
	return p.global
}

// Document exposes the particle's current-document counts.
func (p *Particle) Document() *DocumentCounts {
	return p.doc
}

// predictive fills p.post with the o-LDA one-step posterior
//
//	f(w, t) = (n_wt + beta)/(n_t + W*beta) * (n_dt + alpha)/(n_d + T*alpha)
//
// where W is the vocabulary size at the moment of the observation.
func (p *Particle) predictive(w int32, vocabSize int) []float64 {
	wb := float64(vocabSize) * p.beta
	ta := float64(p.topics) * p.alpha
	nd := float64(p.doc.Total())
	for t := 0; t < p.topics; t++ {
		wordPart := (float64(p.global.Count(w, t)) + p.beta) /
			(float64(p.global.Total(t)) + wb)
		docPart := (float64(p.doc.At(t)) + p.alpha) / (nd + ta)
		p.post[t] = wordPart * docPart
	}
	return p.post
}

// Reweight multiplies the particle's weight by the predictive
// likelihood of the newly observed word under the current counts.
func (p *Particle) Reweight(w int32, vocabSize int) {
	var sum float64
	for _, f := range p.predictive(w, vocabSize) {
		sum += f
	}
	p.weight *= sum
}

// Transition extends the hypothesis: it samples a topic for word i of
// the current document, updates the counts, and records the
// assignment when the document is retained in slot.
func (p *Particle) Transition(store *AssignmentStore, i int, w int32, slot, vocabSize int, rng *rand.Rand) error {
	u := p.predictive(w, vocabSize)
	if err := sampling.NormalizeToCDF(u); err != nil {
		return fmt.Errorf("%w: posterior vanished at word %d", ErrParticleCollapse, i)
	}
	t, err := sampling.Categorical(u, rng)
	if err != nil {
		return err
	}
	p.global.Add(w, t)
	p.doc.Add(t)
	if slot != NotRetained {
		store.Set(p.node, slot, i, int32(t))
	}
	return nil
}

// StartDocument resets the current-document counts and, when the
// document is retained, registers it with the assignment store.
func (p *Particle) StartDocument(store *AssignmentStore, slot int) {
	p.doc = NewDocumentCounts(p.topics)
	if slot != NotRetained {
		store.NewDocument(p.node, slot)
	}
}

// Rejuvenate runs one MCMC sweep over a fresh uniform batch of
// retained word positions.  For each chosen position it removes the
// position's current assignment from the counts, samples a topic from
// the leave-one-out posterior
//
//	g(d,i,t) = (n_wt' + beta)/(n_t' + W*beta) * (n_dt' + alpha)/(n_d - 1 + T*alpha)
//
// where the primed counts exclude the old assignment, and applies the
// move when the topic changed.  docs holds the retained documents as
// word ids, indexed by slot; cur names the slot of the in-flight
// document, whose live counts are updated in place.  It returns the
// number of assignments that changed.
func (p *Particle) Rejuvenate(store *AssignmentStore, docs [][]int32, positions []Position, batch, cur, vocabSize int, rng *rand.Rand) (int, error) {
	if len(positions) == 0 || batch <= 0 {
		return 0, nil
	}

	// Document counts are not kept per reservoir slot; they are
	// reconstructed from the store on demand and cached for the
	// duration of the sweep.  The current document aliases the live
	// counts so that moves stay visible to subsequent transitions.
	cache := make(map[int]*DocumentCounts)
	docCounts := func(d int) *DocumentCounts {
		if d == cur {
			return p.doc
		}
		if c, ok := cache[d]; ok {
			return c
		}
		c := NewDocumentCounts(p.topics)
		for i := range docs[d] {
			c.Add(int(store.Get(p.node, d, i)))
		}
		cache[d] = c
		return c
	}

	wb := float64(vocabSize) * p.beta
	ta := float64(p.topics) * p.alpha
	moves := 0
	for _, k := range sampling.WithoutReplacement(len(positions), batch, rng) {
		d, i := positions[k].Doc, positions[k].Idx
		w := docs[d][i]
		zOld := int(store.Get(p.node, d, i))
		dc := docCounts(d)

		nd := float64(dc.Total()) - 1
		if nd < 0 {
			nd = 0
		}
		for t := 0; t < p.topics; t++ {
			nwt := float64(p.global.Count(w, t))
			nt := float64(p.global.Total(t))
			ndt := float64(dc.At(t))
			if t == zOld {
				nwt = max(nwt-1, 0)
				nt = max(nt-1, 0)
				ndt = max(ndt-1, 0)
			}
			p.post[t] = (nwt + p.beta) / (nt + wb) * ((ndt + p.alpha) / (nd + ta))
		}
		if err := sampling.NormalizeToCDF(p.post); err != nil {
			return moves, fmt.Errorf("%w: rejuvenation posterior vanished at (%d, %d)", ErrParticleCollapse, d, i)
		}
		zNew, err := sampling.Categorical(p.post, rng)
		if err != nil {
			return moves, err
		}
		if zNew == zOld {
			continue
		}
		p.global.ResampleUpdate(w, zOld, zNew)
		dc.ResampleUpdate(zOld, zNew)
		store.Set(p.node, d, i, int32(zNew))
		moves++
	}
	return moves, nil
}

// clone deep-copies the particle's counts into a new particle bound
// to the given store node.  Assignments are shared through the store
// instead of being copied.
func (p *Particle) clone(node int32) *Particle {
	return &Particle{
		weight: p.weight,
		global: p.global.Clone(),
		doc:    p.doc.Clone(),
		node:   node,
		topics: p.topics,
		alpha:  p.alpha,
		beta:   p.beta,
		post:   make([]float64, p.topics),
	}
}
