package chain

import "errors"

// ErrEmptyChain is returned when a chain has no states.
var ErrEmptyChain = errors.New("chain: no states")

// Point is a cell coordinate. Snakes may travel outside the grid.
type Point struct {
	X int
	Y int
}

// Snake is an ordered body, head first.
type Snake []Point

// Head returns the first body cell.
func (s Snake) Head() Point {
	if len(s) == 0 {
		return Point{}
	}
	return s[0]
}

// Move returns a new snake whose head moved by (dx, dy) and whose body
// follows it. The receiver is left untouched.
func (s Snake) Move(dx, dy int) Snake {
	next := make(Snake, len(s))
	if len(s) == 0 {
		return next
	}
	next[0] = Point{X: s[0].X + dx, Y: s[0].Y + dy}
	copy(next[1:], s[:len(s)-1])
	return next
}

// Chain is the ordered sequence of world states a route walks through.
type Chain []Snake

// Apply replays one transition onto grid: if the head of s lands on a
// coloured cell, the colour is pushed onto stack and the cell is cleared.
func Apply(grid *Grid, stack *[]Color, s Snake) {
	if len(s) == 0 {
		return
	}
	h := s.Head()
	c := grid.At(h.X, h.Y)
	if c == ColorEmpty {
		return
	}
	*stack = append(*stack, c)
	grid.Set(h.X, h.Y, ColorEmpty)
}
