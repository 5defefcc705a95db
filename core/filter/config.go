package filter

import "errors"

// Config carries the inference parameters of a run.  The priors are
// symmetric; every topic shares Alpha and every word shares Beta.
type Config struct {
	// Topics is the number of topics T.
	Topics int `yaml:"topics"`

	// Alpha is the symmetric Dirichlet prior on document-topic
	// distributions.
	Alpha float64 `yaml:"alpha"`

	// Beta is the symmetric Dirichlet prior on topic-word
	// distributions.
	Beta float64 `yaml:"beta"`

	// ReservoirCapacity is the number of past documents retained for
	// rejuvenation.  Zero disables rejuvenation entirely.
	ReservoirCapacity int `yaml:"reservoirCapacity"`

	// Particles is the population size P.
	Particles int `yaml:"particles"`

	// ESSThreshold triggers resampling and rejuvenation whenever the
	// effective sample size 1/sum(w_i^2) drops to it or below.
	ESSThreshold float64 `yaml:"essThreshold"`

	// RejuvBatch is the number of retained word positions resampled
	// per rejuvenation sweep.
	RejuvBatch int `yaml:"rejuvBatch"`

	// RejuvSteps is the number of MCMC sweeps per rejuvenation
	// event.  Each sweep draws a fresh batch.
	RejuvSteps int `yaml:"rejuvSteps"`

	// Seed initializes the run's single random generator.  The same
	// seed and input order reproduce the run exactly.
	Seed int64 `yaml:"seed"`
}

func (c *Config) Validate() error {
	if c.Topics < 2 {
		return errors.New("c.Topics must be at least 2")
	}
	if c.Alpha <= 0 {
		return errors.New("c.Alpha must be positive")
	}
	if c.Beta <= 0 {
		return errors.New("c.Beta must be positive")
	}
	if c.ReservoirCapacity < 0 {
		return errors.New("c.ReservoirCapacity must not be negative")
	}
	if c.Particles < 1 {
		return errors.New("c.Particles must be at least 1")
	}
	if c.ESSThreshold < 0 {
		return errors.New("c.ESSThreshold must not be negative")
	}
	if c.RejuvBatch < 0 {
		return errors.New("c.RejuvBatch must not be negative")
	}
	if c.RejuvSteps < 0 {
		return errors.New("c.RejuvSteps must not be negative")
	}
	return nil
}
