package sampler

import (
	"math"

	"github.com/olivier-w/snkscrub/internal/chain"
)

// Frame is everything a renderer needs to draw one in-between moment.
type Frame struct {
	// Grid is the world after replaying Steps chain states.
	Grid  chain.Grid
	Stack []chain.Color
	Steps int

	LowerIndex int
	UpperIndex int
	Lower      chain.Snake
	Upper      chain.Snake

	// Blend is the weight of Upper, in [0, 1).
	Blend    float64
	Position float64
}

// Sample resolves position into its two bounding chain states and rebuilds
// the world as of the lower one. base is never modified. ch must not be empty.
func Sample(ch chain.Chain, base chain.Grid, position float64) Frame {
	steps := replayCount(len(ch), position)
	grid := base.Copy()
	var stack []chain.Color
	for i := 0; i < steps; i++ {
		chain.Apply(&grid, &stack, ch[i])
	}
	return bracket(ch, position, grid, stack, steps)
}

// bracket fills in the bounding indices and blend around an already
// replayed world.
func bracket(ch chain.Chain, position float64, grid chain.Grid, stack []chain.Color, steps int) Frame {
	last := len(ch) - 1
	lower := clampIndex(math.Floor(position), last)
	upper := clampIndex(math.Ceil(position), last)

	blend := 0.0
	if lower != upper {
		blend = position - math.Floor(position)
	}

	return Frame{
		Grid:       grid,
		Stack:      stack,
		Steps:      steps,
		LowerIndex: lower,
		UpperIndex: upper,
		Lower:      ch[lower],
		Upper:      ch[upper],
		Blend:      blend,
		Position:   position,
	}
}

// replayCount is the number of chain states applied for position:
// every index strictly below floor(position), capped to the chain.
func replayCount(n int, position float64) int {
	if math.IsNaN(position) || position <= 0 {
		return 0
	}
	f := math.Floor(position)
	if f >= float64(n) {
		return n
	}
	return int(f)
}

func clampIndex(f float64, last int) int {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= float64(last) {
		return last
	}
	return int(f)
}
