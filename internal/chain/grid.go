package chain

// Color is a contribution level. Empty cells hold ColorEmpty.
type Color uint8

const (
	ColorEmpty Color = iota
	Color1
	Color2
	Color3
	Color4
)

// MaxColor is the highest contribution level a grid cell can hold.
const MaxColor = Color4

// Grid is a row-major matrix of cell colours.
type Grid struct {
	Width  int
	Height int
	Data   []Color
}

// NewGrid returns an empty grid of the given size.
func NewGrid(width, height int) Grid {
	return Grid{Width: width, Height: height, Data: make([]Color, width*height)}
}

// Inside reports whether (x, y) addresses a cell of g.
func (g Grid) Inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// At returns the colour at (x, y), or ColorEmpty outside the grid.
func (g Grid) At(x, y int) Color {
	if !g.Inside(x, y) {
		return ColorEmpty
	}
	return g.Data[y*g.Width+x]
}

// Set writes c at (x, y). Writes outside the grid are dropped.
func (g Grid) Set(x, y int, c Color) {
	if !g.Inside(x, y) {
		return
	}
	g.Data[y*g.Width+x] = c
}

// Copy returns a deep copy of g.
func (g Grid) Copy() Grid {
	data := make([]Color, len(g.Data))
	copy(data, g.Data)
	return Grid{Width: g.Width, Height: g.Height, Data: data}
}

// Remaining counts the non-empty cells of g.
func (g Grid) Remaining() int {
	n := 0
	for _, c := range g.Data {
		if c != ColorEmpty {
			n++
		}
	}
	return n
}
