package filter

import "errors"

// ErrParticleCollapse reports that every particle's weight vanished,
// or that a per-word posterior lost all mass.  Count updates made
// before the failure was detected are kept: when the weights collapse,
// every particle has already counted the current word's sampled
// topic.  The caller may stop or continue with subsequent documents.
var ErrParticleCollapse = errors.New("filter: particle weights collapsed to zero")
