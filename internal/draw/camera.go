package draw

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	cameraFrequency = 6.0
	cameraDamping   = 1.0
	cameraEpsilon   = 0.01
)

// camera pans a fixed-width window across the grid, easing toward the
// column that keeps the snake head centred.
type camera struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
	placed bool
}

func newCamera(fps int) camera {
	if fps <= 0 {
		fps = 60
	}
	return camera{spring: harmonica.NewSpring(harmonica.FPS(fps), cameraFrequency, cameraDamping)}
}

// aim sets the column the window should start at. The first aim snaps.
func (c *camera) aim(target float64) {
	c.target = target
	if !c.placed {
		c.pos = target
		c.vel = 0
		c.placed = true
	}
}

// step advances the camera one frame and reports whether it has settled.
func (c *camera) step() bool {
	if c.settled() {
		return true
	}
	c.pos, c.vel = c.spring.Update(c.pos, c.vel, c.target)
	if c.settled() {
		c.pos = c.target
		c.vel = 0
		return true
	}
	return false
}

func (c *camera) settled() bool {
	return math.Abs(c.pos-c.target) < cameraEpsilon && math.Abs(c.vel) < cameraEpsilon
}

// offset returns the first visible column, clamped to [0, limit].
func (c *camera) offset(limit int) int {
	o := int(math.Round(c.pos))
	if o < 0 {
		return 0
	}
	if o > limit {
		return limit
	}
	return o
}
