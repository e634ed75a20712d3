package sampler

import "github.com/olivier-w/snkscrub/internal/chain"

// Sampler samples one chain. With the prefix cache enabled it keeps the
// world after the last replayed prefix and extends it instead of starting
// over; frames are identical to Sample either way.
type Sampler struct {
	ch     chain.Chain
	base   chain.Grid
	cached bool

	prefixSteps int
	prefixGrid  chain.Grid
	prefixStack []chain.Color
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithPrefixCache enables reuse of the last replayed prefix.
func WithPrefixCache() Option {
	return func(s *Sampler) { s.cached = true }
}

// New returns a sampler over ch starting from base. Both are treated as
// read-only for the sampler's lifetime.
func New(ch chain.Chain, base chain.Grid, opts ...Option) *Sampler {
	s := &Sampler{ch: ch, base: base}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

// Len returns the chain length.
func (s *Sampler) Len() int { return len(s.ch) }

// Sample returns the frame at position. The returned grid and stack are
// always fresh copies.
func (s *Sampler) Sample(position float64) Frame {
	if !s.cached {
		return Sample(s.ch, s.base, position)
	}

	steps := replayCount(len(s.ch), position)
	if steps < s.prefixSteps {
		s.reset()
	}
	for s.prefixSteps < steps {
		chain.Apply(&s.prefixGrid, &s.prefixStack, s.ch[s.prefixSteps])
		s.prefixSteps++
	}

	var stack []chain.Color
	if len(s.prefixStack) > 0 {
		stack = make([]chain.Color, len(s.prefixStack))
		copy(stack, s.prefixStack)
	}
	return bracket(s.ch, position, s.prefixGrid.Copy(), stack, steps)
}

func (s *Sampler) reset() {
	s.prefixSteps = 0
	s.prefixGrid = s.base.Copy()
	s.prefixStack = nil
}
