package scrub

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/olivier-w/snkscrub/internal/chain"
	"github.com/olivier-w/snkscrub/internal/sampler"
	"github.com/olivier-w/snkscrub/internal/spring"
)

var (
	// ErrEmptyChain is returned by New for a chain with no states.
	ErrEmptyChain = errors.New("scrub: empty chain")

	// ErrMissingCollaborator is returned by New for a nil renderer or scheduler.
	ErrMissingCollaborator = errors.New("scrub: missing collaborator")
)

// Renderer draws sampled frames onto a surface it owns.
type Renderer interface {
	// Render draws one frame. It is called once per tick, must not block
	// and must not call back into the controller.
	Render(f sampler.Frame)
	// Release frees the surface. The controller calls it at most once.
	Release()
}

// State is the controller's position in its tick cycle.
type State uint8

const (
	Idle State = iota
	Scheduled
	Running
	Disposed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scheduled:
		return "scheduled"
	case Running:
		return "running"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Status is a snapshot of a controller.
type Status struct {
	State  State
	Spring spring.State
	// Ticks counts ticks since the last target change.
	Ticks int
	// Bounded is set when the last run stopped on the tick bound rather
	// than by settling.
	Bounded bool
}

// Controller animates a spring through a chain, one scheduled tick at a
// time, and hands each sampled frame to a renderer.
type Controller struct {
	id       string
	sampler  *sampler.Sampler
	params   spring.Params
	renderer Renderer
	sched    Scheduler
	log      *slog.Logger
	maxTicks int
	onIdle   func(Status)

	mu      sync.Mutex
	spring  spring.State
	state   State
	token   uint64
	ticks   int
	bounded bool
}

type config struct {
	params      spring.Params
	maxTicks    int
	log         *slog.Logger
	prefixCache bool
	onIdle      func(Status)
	start       float64
}

// Option configures a Controller.
type Option func(*config)

// WithParams sets the spring parameters.
func WithParams(p spring.Params) Option {
	return func(c *config) { c.params = p }
}

// WithMaxTicks stops a run after n ticks without settling. Zero means
// unbounded.
func WithMaxTicks(n int) Option {
	return func(c *config) { c.maxTicks = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithPrefixCache makes the sampler reuse the last replayed prefix.
func WithPrefixCache() Option {
	return func(c *config) { c.prefixCache = true }
}

// WithOnIdle registers fn to run whenever the controller goes idle. It
// runs inside the final tick, so fn must not call back into the controller.
func WithOnIdle(fn func(Status)) Option {
	return func(c *config) { c.onIdle = fn }
}

// WithStart places the spring at rest on position instead of 0.
func WithStart(position float64) Option {
	return func(c *config) { c.start = position }
}

// New validates its inputs, then schedules the first tick.
func New(ch chain.Chain, base chain.Grid, r Renderer, s Scheduler, opts ...Option) (*Controller, error) {
	cfg := config{params: spring.DefaultParams()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(ch) == 0 {
		return nil, ErrEmptyChain
	}
	if r == nil || s == nil {
		return nil, ErrMissingCollaborator
	}
	if err := cfg.params.Validate(); err != nil {
		return nil, err
	}
	if cfg.maxTicks < 0 {
		return nil, fmt.Errorf("%w: max ticks %d", spring.ErrInvalidParams, cfg.maxTicks)
	}
	if math.IsNaN(cfg.start) || math.IsInf(cfg.start, 0) {
		return nil, fmt.Errorf("%w: start %v", spring.ErrInvalidParams, cfg.start)
	}
	if cfg.log == nil {
		cfg.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var sopts []sampler.Option
	if cfg.prefixCache {
		sopts = append(sopts, sampler.WithPrefixCache())
	}

	id := uuid.Must(uuid.NewV7()).String()
	c := &Controller{
		id:       id,
		sampler:  sampler.New(ch, base, sopts...),
		params:   cfg.params,
		renderer: r,
		sched:    s,
		log:      cfg.log.With("scrubber", id),
		maxTicks: cfg.maxTicks,
		onIdle:   cfg.onIdle,
	}
	start := clampTarget(cfg.start, len(ch))
	c.spring = spring.State{X: start, Target: start}

	c.log.Info("scrubber created",
		"states", len(ch),
		"tension", c.params.Tension,
		"friction", c.params.Friction,
		"max_velocity", c.params.MaxVelocity,
		"fps", c.params.FPS,
	)

	c.mu.Lock()
	c.schedule()
	c.mu.Unlock()
	return c, nil
}

// ID returns the controller's instance id.
func (c *Controller) ID() string { return c.id }

// Len returns the chain length; valid targets are [0, Len()].
func (c *Controller) Len() int { return c.sampler.Len() }

// Params returns the spring parameters.
func (c *Controller) Params() spring.Params { return c.params }

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status()
}

// SetTarget redirects the spring toward target, clamped to [0, Len()].
// The spring keeps its current position and velocity; any pending tick is
// replaced. Non-finite targets and calls after Dispose are ignored.
func (c *Controller) SetTarget(target float64) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Disposed {
		return
	}

	target = clampTarget(target, c.sampler.Len())
	c.spring.Target = target
	c.ticks = 0
	c.bounded = false
	c.log.Debug("retarget", "target", target, "x", c.spring.X, "v", c.spring.V, "from", c.state.String())
	c.schedule()
}

// Dispose cancels any pending tick and releases the renderer. It is safe
// to call from any state and more than once.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Disposed {
		return
	}
	c.sched.CancelPendingTick()
	c.token++
	c.state = Disposed
	c.renderer.Release()
	c.log.Debug("scrubber disposed", "x", c.spring.X)
}

// schedule replaces any pending tick with a new one. Callers hold mu.
func (c *Controller) schedule() {
	c.sched.CancelPendingTick()
	c.token++
	token := c.token
	c.state = Scheduled
	c.sched.ScheduleNextTick(func() { c.tick(token) })
}

func (c *Controller) tick(token uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// cancelled callbacks that fired anyway
	if token != c.token || c.state != Scheduled {
		return
	}
	c.state = Running

	target := c.spring.Target
	spring.Step(&c.spring, c.params, target)
	c.ticks++
	stable := spring.IsStableAndBound(c.spring, target)
	if stable {
		c.spring.Settle(target)
	}

	c.renderer.Render(c.sampler.Sample(c.spring.X))

	switch {
	case stable:
		c.idle()
		c.log.Debug("settled", "target", target, "ticks", c.ticks)
	case c.maxTicks > 0 && c.ticks >= c.maxTicks:
		c.bounded = true
		c.idle()
		c.log.Warn("tick bound reached", "target", target, "x", c.spring.X, "v", c.spring.V, "ticks", c.ticks)
	default:
		c.schedule()
	}
}

func (c *Controller) idle() {
	c.state = Idle
	if c.onIdle != nil {
		c.onIdle(c.status())
	}
}

func (c *Controller) status() Status {
	return Status{State: c.state, Spring: c.spring, Ticks: c.ticks, Bounded: c.bounded}
}

func clampTarget(t float64, n int) float64 {
	return math.Max(0, math.Min(float64(n), t))
}
