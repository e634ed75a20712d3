package draw

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/olivier-w/snkscrub/internal/chain"
	"github.com/olivier-w/snkscrub/internal/sampler"
)

// Cell glyphs. Every cell is two columns wide so the grid stays square.
const (
	glyphEmpty = " ·"
	glyphHead  = "@@"
	glyphBody  = "oo"
)

var levelGlyphs = [chain.MaxColor]string{"░░", "▒▒", "▓▓", "██"}

// Options configures a Canvas.
type Options struct {
	// Profile is the colour profile; ProfileAuto detects it from the environment.
	Profile Profile
	// Viewport is the number of grid columns shown. Zero shows them all.
	Viewport int
	// FPS is the camera's frame rate.
	FPS int
}

// Canvas is a terminal surface that draws sampled frames as text.
type Canvas struct {
	opts    Options
	profile Profile
	pal     palette

	mu       sync.Mutex
	cam      camera
	last     *sampler.Frame
	output   string
	renders  int
	releases int
}

// NewCanvas returns an empty canvas.
func NewCanvas(opts Options) *Canvas {
	profile := opts.Profile
	if profile == ProfileAuto {
		profile = DetectProfile()
	}
	return &Canvas{
		opts:    opts,
		profile: profile,
		pal:     defaultPalette,
		cam:     newCamera(opts.FPS),
	}
}

// Render draws f. Frames arriving after Release are dropped.
func (c *Canvas) Render(f sampler.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.releases > 0 {
		return
	}
	c.last = &f
	c.renders++
	c.aimAt(f)
	c.cam.step()
	c.output = c.draw(f)
}

// StepCamera advances the camera one frame, redraws the last frame and
// reports whether the camera has come to rest.
func (c *Canvas) StepCamera() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil || c.releases > 0 {
		return true
	}
	settled := c.cam.step()
	c.output = c.draw(*c.last)
	return settled
}

// SetViewport changes how many grid columns are visible.
func (c *Canvas) SetViewport(cols int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cols < 0 {
		cols = 0
	}
	c.opts.Viewport = cols
	c.cam.placed = false
	if c.last != nil && c.releases == 0 {
		c.aimAt(*c.last)
		c.output = c.draw(*c.last)
	}
}

// Release drops the surface. Later calls are no-ops.
func (c *Canvas) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.releases > 0 {
		return
	}
	c.releases++
	c.last = nil
	c.output = ""
}

// Released reports whether Release has run.
func (c *Canvas) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.releases > 0
}

// Releases returns how many times the surface was actually released.
func (c *Canvas) Releases() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.releases
}

// Renders returns how many frames were drawn.
func (c *Canvas) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}

// View returns the last drawn frame.
func (c *Canvas) View() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.output
}

// visible returns how many columns are drawn for a grid of width w.
func (c *Canvas) visible(w int) int {
	if c.opts.Viewport <= 0 || c.opts.Viewport >= w {
		return w
	}
	return c.opts.Viewport
}

func (c *Canvas) aimAt(f sampler.Frame) {
	w := f.Grid.Width
	cols := c.visible(w)
	if cols == w {
		c.cam.aim(0)
		return
	}
	head := lerpSnake(f.Lower, f.Upper, f.Blend)
	x := 0
	if len(head) > 0 {
		x = head[0].X
	}
	target := math.Max(0, math.Min(float64(w-cols), float64(x-cols/2)))
	c.cam.aim(target)
}

func (c *Canvas) draw(f sampler.Frame) string {
	g := f.Grid
	cols := c.visible(g.Width)
	offset := c.cam.offset(g.Width - cols)

	body := lerpSnake(f.Lower, f.Upper, f.Blend)
	occupied := make(map[chain.Point]string, len(body))
	for i := len(body) - 1; i >= 0; i-- {
		if i == 0 {
			occupied[body[i]] = glyphHead
		} else {
			occupied[body[i]] = glyphBody
		}
	}

	var out strings.Builder
	color := newANSIState(c.profile)
	for y := 0; y < g.Height; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		for x := offset; x < offset+cols; x++ {
			p := chain.Point{X: x, Y: y}
			if glyph, ok := occupied[p]; ok {
				if glyph == glyphHead {
					color.set(&out, c.pal.Head)
				} else {
					color.set(&out, c.pal.Snake)
				}
				out.WriteString(glyph)
				continue
			}
			cell := g.At(x, y)
			color.set(&out, c.pal.level(cell))
			out.WriteString(cellGlyph(cell))
		}
		color.reset(&out)
	}

	out.WriteString("\neaten ")
	out.WriteString(strconv.Itoa(len(f.Stack)))
	if len(f.Stack) > 0 {
		out.WriteByte(' ')
		stack := f.Stack
		if limit := cols * 2; len(stack) > limit {
			stack = stack[len(stack)-limit:]
		}
		for _, s := range stack {
			color.set(&out, c.pal.level(s))
			r, _ := firstRune(cellGlyph(s))
			out.WriteRune(r)
		}
		color.reset(&out)
	}
	return out.String()
}

// lerpSnake places each body cell between its lower and upper positions,
// rounded to the nearest cell.
func lerpSnake(lower, upper chain.Snake, blend float64) chain.Snake {
	out := make(chain.Snake, len(lower))
	for i, a := range lower {
		b := a
		if i < len(upper) {
			b = upper[i]
		}
		out[i] = chain.Point{
			X: int(math.Round(float64(a.X) + float64(b.X-a.X)*blend)),
			Y: int(math.Round(float64(a.Y) + float64(b.Y-a.Y)*blend)),
		}
	}
	return out
}

func cellGlyph(c chain.Color) string {
	if c == chain.ColorEmpty || c > chain.MaxColor {
		return glyphEmpty
	}
	return levelGlyphs[c-1]
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return ' ', false
}
