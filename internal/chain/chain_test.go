package chain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/snkscrub/internal/spring"
)

func TestApplyEatsColouredHead(t *testing.T) {
	g := NewGrid(3, 1)
	g.Set(1, 0, Color3)
	var stack []Color

	Apply(&g, &stack, Snake{{X: 1, Y: 0}, {X: 0, Y: 0}})
	assert.Equal(t, []Color{Color3}, stack)
	assert.Equal(t, ColorEmpty, g.At(1, 0))

	Apply(&g, &stack, Snake{{X: 1, Y: 0}})
	assert.Equal(t, []Color{Color3}, stack, "cleared cell is not eaten twice")

	Apply(&g, &stack, Snake{{X: -1, Y: 0}})
	Apply(&g, &stack, nil)
	assert.Len(t, stack, 1)
}

func TestGridCopyIsDeep(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(0, 0, Color1)
	c := g.Copy()
	c.Set(0, 0, Color4)
	assert.Equal(t, Color1, g.At(0, 0))
	assert.Equal(t, Color4, c.At(0, 0))
	assert.Equal(t, ColorEmpty, g.At(5, 5))
	assert.Equal(t, 1, g.Remaining())
}

func TestSnakeMoveFollowsHead(t *testing.T) {
	s := Snake{{X: 0, Y: 0}, {X: -1, Y: 0}, {X: -2, Y: 0}}
	next := s.Move(0, 1)
	assert.Equal(t, Snake{{X: 0, Y: 1}, {X: 0, Y: 0}, {X: -1, Y: 0}}, next)
	assert.Equal(t, Point{X: 0, Y: 0}, s.Head(), "receiver untouched")
}

func TestParseGrid(t *testing.T) {
	g, err := ParseGrid("\n  .1\n  4.\n")
	require.NoError(t, err)
	assert.Equal(t, 2, g.Width)
	assert.Equal(t, 2, g.Height)
	assert.Equal(t, []Color{ColorEmpty, Color1, Color4, ColorEmpty}, g.Data)

	_, err = ParseGrid("..\n...")
	assert.ErrorIs(t, err, ErrBadGrid)
	_, err = ParseGrid(".5")
	assert.ErrorIs(t, err, ErrBadGrid)
	_, err = ParseGrid("  \n")
	assert.ErrorIs(t, err, ErrBadGrid)
}

func TestExpand(t *testing.T) {
	ch, err := Expand(Snake{{X: 0, Y: 0}}, "r d\nl")
	require.NoError(t, err)
	assert.Equal(t, Chain{
		{{X: 1, Y: 0}},
		{{X: 1, Y: 1}},
		{{X: 0, Y: 1}},
	}, ch)

	_, err = Expand(Snake{{X: 0, Y: 0}}, "RX")
	assert.ErrorIs(t, err, ErrBadMove)
	_, err = Expand(Snake{{X: 0, Y: 0}}, "  ")
	assert.ErrorIs(t, err, ErrEmptyChain)
}

func TestParseFile(t *testing.T) {
	scene, err := Parse([]byte(`
name: tiny
grid: |
  .12
snake: [[0, 0], [-1, 0]]
moves: RR
spring:
  tension: 200
`))
	require.NoError(t, err)
	assert.Equal(t, "tiny", scene.Name)
	assert.Len(t, scene.Chain, 2)
	assert.Equal(t, Snake{{X: 2, Y: 0}, {X: 1, Y: 0}}, scene.Chain[1])

	p := scene.Spring.Apply(spring.DefaultParams())
	assert.Equal(t, 200.0, p.Tension)
	assert.Equal(t, 20.0, p.Friction, "unset fields keep defaults")
}

func TestParseFileRejectsBadInput(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"no moves":     {"grid: '.1'\nsnake: [[0,0]]\n", ErrEmptyChain},
		"no snake":     {"grid: '.1'\nmoves: R\n", ErrBadSnake},
		"short point":  {"grid: '.1'\nsnake: [[0]]\nmoves: R\n", ErrBadSnake},
		"bad spring":   {"grid: '.1'\nsnake: [[0,0]]\nmoves: R\nspring: {max_velocity: 0}\n", spring.ErrInvalidParams},
		"bad grid":     {"grid: '.x'\nsnake: [[0,0]]\nmoves: R\n", ErrBadGrid},
		"unknown move": {"grid: '.1'\nsnake: [[0,0]]\nmoves: Q\n", ErrBadMove},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := Parse([]byte("grid: '.1'\nsnake: [[0,0]]\nmoves: R\nextra: 1\n"))
	assert.Error(t, err, "unknown fields are rejected")
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid: '.1'\nsnake: [[0,0]]\nmoves: R\n"), 0o644))

	scene, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "untitled", scene.Name)
	assert.Nil(t, scene.Spring)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDemo(t *testing.T) {
	scene := Demo()
	assert.Equal(t, "demo", scene.Name)
	assert.Equal(t, 12, scene.Base.Width)
	assert.Equal(t, 4, scene.Base.Height)
	assert.Len(t, scene.Chain, 47)

	g := scene.Base.Copy()
	var stack []Color
	for _, s := range scene.Chain {
		Apply(&g, &stack, s)
	}
	assert.Zero(t, g.Remaining(), "demo route clears the grid")
	assert.Len(t, stack, scene.Base.Remaining())
}
