package draw

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/olivier-w/snkscrub/internal/chain"
)

// Profile selects how colour is written to the terminal.
type Profile uint8

const (
	ProfileAuto Profile = iota
	ProfileNone
	ProfileANSI16
	ProfileANSI256
	ProfileTrueColor
)

type colorRGB struct {
	R uint8
	G uint8
	B uint8
}

var (
	profileOnce sync.Once
	detected    Profile
	seqCache    sync.Map
)

// DetectProfile inspects NO_COLOR, COLORTERM and TERM once per process.
func DetectProfile() Profile {
	profileOnce.Do(func() {
		if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
			detected = ProfileNone
			return
		}
		term := strings.ToLower(os.Getenv("TERM"))
		colorTerm := strings.ToLower(os.Getenv("COLORTERM"))
		switch {
		case strings.Contains(colorTerm, "truecolor"), strings.Contains(colorTerm, "24bit"):
			detected = ProfileTrueColor
		case strings.Contains(term, "256color"):
			detected = ProfileANSI256
		case term == "", term == "dumb":
			detected = ProfileNone
		default:
			detected = ProfileANSI16
		}
	})
	return detected
}

// palette maps cell contents to colours.
type palette struct {
	Empty  colorRGB
	Levels [chain.MaxColor]colorRGB
	Snake  colorRGB
	Head   colorRGB
}

// defaultPalette is the dark contribution-graph palette with a purple snake.
var defaultPalette = palette{
	Empty: colorRGB{R: 72, G: 79, B: 88},
	Levels: [chain.MaxColor]colorRGB{
		{R: 14, G: 68, B: 41},
		{R: 0, G: 109, B: 50},
		{R: 38, G: 166, B: 65},
		{R: 57, G: 211, B: 83},
	},
	Snake: colorRGB{R: 137, G: 87, B: 229},
	Head:  colorRGB{R: 188, G: 140, B: 255},
}

func (p palette) level(c chain.Color) colorRGB {
	if c == chain.ColorEmpty || c > chain.MaxColor {
		return p.Empty
	}
	return p.Levels[c-1]
}

type ansiState struct {
	profile Profile
	current uint32
}

func newANSIState(profile Profile) ansiState {
	return ansiState{profile: profile, current: ^uint32(0)}
}

func (s *ansiState) set(sb *strings.Builder, c colorRGB) {
	if s.profile == ProfileNone {
		return
	}
	key := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if key == s.current {
		return
	}
	sb.WriteString(colorSequence(s.profile, c))
	s.current = key
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.profile == ProfileNone || s.current == ^uint32(0) {
		return
	}
	sb.WriteString("\x1b[0m")
	s.current = ^uint32(0)
}

var ansi16 = []colorRGB{
	{R: 0, G: 0, B: 0},
	{R: 205, G: 49, B: 49},
	{R: 13, G: 188, B: 121},
	{R: 229, G: 229, B: 16},
	{R: 36, G: 114, B: 200},
	{R: 188, G: 63, B: 188},
	{R: 17, G: 168, B: 205},
	{R: 229, G: 229, B: 229},
}

func colorSequence(profile Profile, c colorRGB) string {
	key := uint32(profile)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	var seq string
	switch profile {
	case ProfileTrueColor:
		seq = fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
	case ProfileANSI256:
		r := int(c.R) * 5 / 255
		g := int(c.G) * 5 / 255
		b := int(c.B) * 5 / 255
		seq = fmt.Sprintf("\x1b[38;5;%dm", 16+36*r+6*g+b)
	case ProfileANSI16:
		best := 0
		bestDist := math.MaxFloat64
		for i, p := range ansi16 {
			dr := float64(c.R) - float64(p.R)
			dg := float64(c.G) - float64(p.G)
			db := float64(c.B) - float64(p.B)
			d := dr*dr + dg*dg + db*db
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		seq = fmt.Sprintf("\x1b[%dm", 30+best)
	}

	seqCache.Store(key, seq)
	return seq
}
