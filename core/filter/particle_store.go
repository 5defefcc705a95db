package filter

import (
	"fmt"
	"math/rand"

	"github.com/hausdorff/slda/core/sampling"
)

// ParticleStore owns the particle population and the assignment
// store behind it.  All per-word operations are broadcast across the
// population in index order; particles never read each other's
// mutable state, so the order is immaterial.
type ParticleStore struct {
	particles []*Particle
	store     *AssignmentStore
	rng       *rand.Rand
	cdf       []float64 // scratch for resampling
}

// NewParticleStore creates numParticles root particles with weight
// 1/P each.
func NewParticleStore(numParticles, topics int, alpha, beta float64, slots int, rng *rand.Rand) *ParticleStore {
	ps := &ParticleStore{
		particles: make([]*Particle, numParticles),
		store:     NewAssignmentStore(slots),
		rng:       rng,
		cdf:       make([]float64, numParticles),
	}
	w := 1.0 / float64(numParticles)
	for i := range ps.particles {
		ps.particles[i] = newParticle(topics, alpha, beta, w, ps.store.NewRoot())
	}
	return ps
}

// Len returns the population size P.
func (ps *ParticleStore) Len() int {
	return len(ps.particles)
}

// Particle returns the i-th particle for read access.
func (ps *ParticleStore) Particle(i int) *Particle {
	return ps.particles[i]
}

// Store returns the assignment store.
func (ps *ParticleStore) Store() *AssignmentStore {
	return ps.store
}

// ReweightAll multiplies every particle's weight by its predictive
// likelihood of word w.
func (ps *ParticleStore) ReweightAll(w int32, vocabSize int) {
	for _, p := range ps.particles {
		p.Reweight(w, vocabSize)
	}
}

// TransitionAll samples a topic for word i of the current document in
// every particle.
func (ps *ParticleStore) TransitionAll(i int, w int32, slot, vocabSize int) error {
	for _, p := range ps.particles {
		if err := p.Transition(ps.store, i, w, slot, vocabSize, ps.rng); err != nil {
			return err
		}
	}
	return nil
}

// StartDocumentAll resets every particle's current-document counts.
func (ps *ParticleStore) StartDocumentAll(slot int) {
	for _, p := range ps.particles {
		p.StartDocument(ps.store, slot)
	}
}

// Weights returns the current weights in particle order.
func (ps *ParticleStore) Weights() []float64 {
	ws := make([]float64, len(ps.particles))
	for i, p := range ps.particles {
		ws[i] = p.weight
	}
	return ws
}

// NormalizeWeights rescales the weights to sum to one.
func (ps *ParticleStore) NormalizeWeights() error {
	var sum float64
	for _, p := range ps.particles {
		sum += p.weight
	}
	if sum == 0 {
		return ErrParticleCollapse
	}
	for _, p := range ps.particles {
		p.weight /= sum
	}
	return nil
}

// ESS returns the effective sample size 1/sum(w_i^2) of the
// normalized weights.
func (ps *ParticleStore) ESS() float64 {
	norm := sampling.L2Norm(ps.Weights())
	return 1.0 / (norm * norm)
}

// UniformReweightAll resets every weight to 1/P.
func (ps *ParticleStore) UniformReweightAll() {
	w := 1.0 / float64(len(ps.particles))
	for _, p := range ps.particles {
		p.weight = w
	}
}

// Resample replaces the population with P draws with replacement
// proportional to weight.  Each draw becomes a child particle: counts
// are deep-copied, assignments are shared with the drawn particle
// through a new child node.  Weights are reset to 1/P and store nodes
// no live particle can reach are pruned.
func (ps *ParticleStore) Resample() error {
	for i, p := range ps.particles {
		ps.cdf[i] = p.weight
	}
	if err := sampling.NormalizeToCDF(ps.cdf); err != nil {
		return fmt.Errorf("resample: %w", ErrParticleCollapse)
	}

	next := make([]*Particle, len(ps.particles))
	for j := range next {
		k, err := sampling.Categorical(ps.cdf, ps.rng)
		if err != nil {
			return err
		}
		chosen := ps.particles[k]
		next[j] = chosen.clone(ps.store.NewChild(chosen.node))
	}
	ps.particles = next
	ps.UniformReweightAll()

	live := make([]int32, len(ps.particles))
	for i, p := range ps.particles {
		live[i] = p.node
	}
	ps.store.Prune(live)
	return nil
}

// RejuvenateAll runs one rejuvenation sweep on every particle and
// returns the total number of moved assignments.
func (ps *ParticleStore) RejuvenateAll(docs [][]int32, positions []Position, batch, cur, vocabSize int) (int, error) {
	total := 0
	for _, p := range ps.particles {
		moves, err := p.Rejuvenate(ps.store, docs, positions, batch, cur, vocabSize, ps.rng)
		total += moves
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
