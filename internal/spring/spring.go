package spring

import (
	"errors"
	"fmt"
	"math"
)

// DefaultFPS is the tick rate the integrator assumes when Params.FPS is zero.
const DefaultFPS = 60

// Settling thresholds. Velocity is compared per tick at DefaultFPS, so
// VelocityEpsilon is 0.01 index units per tick expressed per second.
const (
	PositionEpsilon = 0.01
	VelocityEpsilon = 0.01 * DefaultFPS
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("spring: invalid params")

// State is a damped spring moving along the chain. X may be fractional.
type State struct {
	X      float64 `json:"x"`
	V      float64 `json:"v"`
	Target float64 `json:"target"`
}

// Params configures the spring. Tension and Friction are per-second
// quantities; MaxVelocity bounds |V| in index units per second.
type Params struct {
	Tension     float64 `json:"tension"`
	Friction    float64 `json:"friction"`
	MaxVelocity float64 `json:"max_velocity"`
	FPS         int     `json:"fps"`
}

// DefaultParams returns the parameters the scrubber ships with.
func DefaultParams() Params {
	return Params{Tension: 120, Friction: 20, MaxVelocity: 50, FPS: DefaultFPS}
}

// Validate reports non-finite or out-of-range parameters.
func (p Params) Validate() error {
	switch {
	case !finite(p.Tension) || p.Tension < 0:
		return fmt.Errorf("%w: tension %v", ErrInvalidParams, p.Tension)
	case !finite(p.Friction) || p.Friction < 0:
		return fmt.Errorf("%w: friction %v", ErrInvalidParams, p.Friction)
	case !finite(p.MaxVelocity) || p.MaxVelocity <= 0:
		return fmt.Errorf("%w: max velocity %v", ErrInvalidParams, p.MaxVelocity)
	case p.FPS < 0:
		return fmt.Errorf("%w: fps %d", ErrInvalidParams, p.FPS)
	}

	// Semi-implicit Euler only damps when both bounds hold at this step size.
	dt := p.Dt()
	if p.Friction*dt >= 2 {
		return fmt.Errorf("%w: friction %v too high for %v fps", ErrInvalidParams, p.Friction, 1/dt)
	}
	if p.Tension*dt*dt >= 4-2*p.Friction*dt {
		return fmt.Errorf("%w: tension %v too high for friction %v at %v fps", ErrInvalidParams, p.Tension, p.Friction, 1/dt)
	}
	return nil
}

// Dt returns the duration of one tick in seconds.
func (p Params) Dt() float64 {
	if p.FPS <= 0 {
		return 1.0 / DefaultFPS
	}
	return 1.0 / float64(p.FPS)
}

// Step advances s by one tick toward target using semi-implicit Euler.
// A zero tension never pulls the spring toward target.
func Step(s *State, p Params, target float64) {
	dt := p.Dt()
	a := p.Tension*(target-s.X) - p.Friction*s.V
	s.V = clamp(s.V+a*dt, -p.MaxVelocity, p.MaxVelocity)
	s.X += s.V * dt
	s.Target = target
}

// IsStableAndBound reports whether s sits on target with negligible velocity.
// Both conditions must hold on the same tick; it never modifies s.
func IsStableAndBound(s State, target float64) bool {
	return math.Abs(s.X-target) < PositionEpsilon && math.Abs(s.V) < VelocityEpsilon
}

// Settle pins s exactly on target at rest.
func (s *State) Settle(target float64) {
	s.X = target
	s.V = 0
	s.Target = target
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
