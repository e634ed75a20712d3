package draw

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivier-w/snkscrub/internal/chain"
	"github.com/olivier-w/snkscrub/internal/sampler"
)

func scene(t *testing.T) (chain.Chain, chain.Grid) {
	t.Helper()
	base, err := chain.ParseGrid("12..\n.34.")
	require.NoError(t, err)
	ch, err := chain.Expand(chain.Snake{{X: 0, Y: 0}, {X: -1, Y: 0}}, "RRD")
	require.NoError(t, err)
	return ch, base
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestCanvasDrawsBlendedSnake(t *testing.T) {
	ch, base := scene(t)
	c := NewCanvas(Options{Profile: ProfileNone})
	c.Render(sampler.Sample(ch, base, 1.5))

	golden(t).Assert(t, "halfway", []byte(c.View()))
}

func TestCanvasViewportFollowsHead(t *testing.T) {
	ch, base := scene(t)
	c := NewCanvas(Options{Profile: ProfileNone, Viewport: 2})
	c.Render(sampler.Sample(ch, base, 3))

	golden(t).Assert(t, "viewport", []byte(c.View()))
}

func TestCanvasCameraEasesAcross(t *testing.T) {
	base := chain.NewGrid(20, 1)
	right := chain.Chain{{{X: 18, Y: 0}}}
	left := chain.Chain{{{X: 1, Y: 0}}}

	c := NewCanvas(Options{Profile: ProfileNone, Viewport: 4})
	c.Render(sampler.Sample(right, base, 0))
	assert.Equal(t, 16, c.cam.offset(16))
	assert.True(t, c.StepCamera(), "first frame snaps into place")

	c.Render(sampler.Sample(left, base, 0))
	assert.Greater(t, c.cam.offset(16), 0, "camera eases instead of jumping")
	for i := 0; i < 15; i++ {
		require.False(t, c.StepCamera())
	}
	mid := c.cam.offset(16)
	assert.Greater(t, mid, 0)
	assert.Less(t, mid, 16)

	settled := false
	for i := 0; i < 600 && !settled; i++ {
		settled = c.StepCamera()
	}
	require.True(t, settled)
	assert.Equal(t, 0, c.cam.offset(16))
	assert.True(t, strings.HasPrefix(c.View(), " ·@@"), "got %q", c.View())
}

func TestCanvasColourProfile(t *testing.T) {
	ch, base := scene(t)
	c := NewCanvas(Options{Profile: ProfileTrueColor})
	c.Render(sampler.Sample(ch, base, 0))
	view := c.View()
	assert.Contains(t, view, "\x1b[38;2;")
	assert.Contains(t, view, "\x1b[0m")

	plain := NewCanvas(Options{Profile: ProfileNone})
	plain.Render(sampler.Sample(ch, base, 0))
	assert.NotContains(t, plain.View(), "\x1b[")
}

func TestCanvasReleaseIsIdempotent(t *testing.T) {
	ch, base := scene(t)
	c := NewCanvas(Options{Profile: ProfileNone})
	c.Render(sampler.Sample(ch, base, 0))
	assert.Equal(t, 1, c.Renders())

	c.Release()
	c.Release()
	assert.True(t, c.Released())
	assert.Equal(t, 1, c.Releases())
	assert.Empty(t, c.View())

	c.Render(sampler.Sample(ch, base, 1))
	assert.Equal(t, 1, c.Renders(), "released canvas ignores frames")
	assert.True(t, c.StepCamera())
}

func TestCanvasSetViewportRedraws(t *testing.T) {
	ch, base := scene(t)
	c := NewCanvas(Options{Profile: ProfileNone})
	c.Render(sampler.Sample(ch, base, 3))
	wide := c.View()

	c.SetViewport(2)
	assert.NotEqual(t, wide, c.View())
	assert.Equal(t, " ·oo\n▓▓@@\neaten 2 ▒█", c.View())
}

func TestLerpSnake(t *testing.T) {
	lower := chain.Snake{{X: 0, Y: 0}, {X: 0, Y: 1}}
	upper := chain.Snake{{X: 2, Y: 0}}
	got := lerpSnake(lower, upper, 0.25)
	assert.Equal(t, chain.Snake{{X: 1, Y: 0}, {X: 0, Y: 1}}, got)
}

func TestColorSequenceProfiles(t *testing.T) {
	c := colorRGB{R: 255, G: 0, B: 0}
	assert.Equal(t, "\x1b[38;2;255;0;0m", colorSequence(ProfileTrueColor, c))
	assert.Equal(t, "\x1b[38;5;196m", colorSequence(ProfileANSI256, c))
	assert.Equal(t, "\x1b[31m", colorSequence(ProfileANSI16, c))
	assert.Empty(t, colorSequence(ProfileNone, c))
}
