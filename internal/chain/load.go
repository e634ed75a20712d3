package chain

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olivier-w/snkscrub/internal/spring"
)

var (
	// ErrBadGrid is returned for ragged rows or unknown cell glyphs.
	ErrBadGrid = errors.New("chain: malformed grid")

	// ErrBadMove is returned for a move outside U, D, L, R.
	ErrBadMove = errors.New("chain: malformed move")

	// ErrBadSnake is returned for an empty or malformed snake body.
	ErrBadSnake = errors.New("chain: malformed snake")
)

//go:embed demo.yaml
var demoYAML []byte

// File is the on-disk description of a chain.
type File struct {
	Name   string     `yaml:"name"`
	Grid   string     `yaml:"grid"`
	Snake  [][]int    `yaml:"snake"`
	Moves  string     `yaml:"moves"`
	Spring *Overrides `yaml:"spring,omitempty"`
}

// Overrides holds the spring fields a chain file may set. Unset fields
// keep whatever the caller already had.
type Overrides struct {
	Tension     *float64 `yaml:"tension"`
	Friction    *float64 `yaml:"friction"`
	MaxVelocity *float64 `yaml:"max_velocity"`
	FPS         *int     `yaml:"fps"`
}

// Apply layers o over p.
func (o *Overrides) Apply(p spring.Params) spring.Params {
	if o == nil {
		return p
	}
	if o.Tension != nil {
		p.Tension = *o.Tension
	}
	if o.Friction != nil {
		p.Friction = *o.Friction
	}
	if o.MaxVelocity != nil {
		p.MaxVelocity = *o.MaxVelocity
	}
	if o.FPS != nil {
		p.FPS = *o.FPS
	}
	return p
}

// Scene is a loaded chain together with the grid it starts from.
type Scene struct {
	Name   string
	Base   Grid
	Start  Snake
	Chain  Chain
	Spring *Overrides
}

// Load reads and parses a chain file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scene, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

// Demo returns the built-in chain.
func Demo() *Scene {
	scene, err := Parse(demoYAML)
	if err != nil {
		panic(fmt.Sprintf("chain: embedded demo: %v", err))
	}
	return scene
}

// Parse decodes a chain file from YAML.
func Parse(data []byte) (*Scene, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode chain file: %w", err)
	}
	return f.Scene()
}

// Scene validates f and expands its moves into a chain.
func (f File) Scene() (*Scene, error) {
	base, err := ParseGrid(f.Grid)
	if err != nil {
		return nil, err
	}

	if len(f.Snake) == 0 {
		return nil, fmt.Errorf("%w: no body cells", ErrBadSnake)
	}
	start := make(Snake, len(f.Snake))
	for i, p := range f.Snake {
		if len(p) != 2 {
			return nil, fmt.Errorf("%w: cell %d has %d coordinates", ErrBadSnake, i, len(p))
		}
		start[i] = Point{X: p[0], Y: p[1]}
	}

	ch, err := Expand(start, f.Moves)
	if err != nil {
		return nil, err
	}

	if err := f.Spring.Apply(spring.DefaultParams()).Validate(); err != nil {
		return nil, err
	}

	name := f.Name
	if name == "" {
		name = "untitled"
	}
	return &Scene{Name: name, Base: base, Start: start, Chain: ch, Spring: f.Spring}, nil
}

// ParseGrid reads one row per line: '.' for empty cells, '1'..'4' for levels.
func ParseGrid(s string) (Grid, error) {
	var rows []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) == 0 {
		return Grid{}, fmt.Errorf("%w: no rows", ErrBadGrid)
	}

	g := NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.Width {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrBadGrid, y, len(row), g.Width)
		}
		for x, r := range row {
			switch {
			case r == '.':
			case r >= '1' && r <= '0'+rune(MaxColor):
				g.Set(x, y, Color(r-'0'))
			default:
				return Grid{}, fmt.Errorf("%w: unknown glyph %q at %d,%d", ErrBadGrid, r, x, y)
			}
		}
	}
	return g, nil
}

// Expand walks start through moves, one chain state per move.
func Expand(start Snake, moves string) (Chain, error) {
	moves = strings.Join(strings.Fields(moves), "")
	if moves == "" {
		return nil, ErrEmptyChain
	}

	ch := make(Chain, 0, len(moves))
	s := start
	for i, m := range strings.ToUpper(moves) {
		var dx, dy int
		switch m {
		case 'U':
			dy = -1
		case 'D':
			dy = 1
		case 'L':
			dx = -1
		case 'R':
			dx = 1
		default:
			return nil, fmt.Errorf("%w: %q at %d", ErrBadMove, m, i)
		}
		s = s.Move(dx, dy)
		ch = append(ch, s)
	}
	return ch, nil
}
