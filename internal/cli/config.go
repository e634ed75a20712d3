package cli

import (
	"github.com/spf13/cobra"

	"github.com/olivier-w/snkscrub/internal/chain"
	"github.com/olivier-w/snkscrub/internal/draw"
	"github.com/olivier-w/snkscrub/internal/spring"
)

// LoadScene loads the chain file at path, or the built-in demo when path
// is empty.
func LoadScene(path string) (*chain.Scene, error) {
	if path == "" {
		return chain.Demo(), nil
	}
	scene, err := chain.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load chain", err)
	}
	return scene, nil
}

// ResolveParams layers the spring parameters: built-in defaults, then the
// scene's spring block, then any flag set on the command line.
func ResolveParams(cmd *cobra.Command, opts *RootOptions, scene *chain.Scene) (spring.Params, error) {
	p := spring.DefaultParams()
	if scene != nil {
		p = scene.Spring.Apply(p)
	}

	if changed(cmd, "tension") {
		p.Tension = opts.Tension
	}
	if changed(cmd, "friction") {
		p.Friction = opts.Friction
	}
	if changed(cmd, "max-velocity") {
		p.MaxVelocity = opts.MaxVelocity
	}
	if changed(cmd, "fps") {
		p.FPS = opts.FPS
	}

	if err := p.Validate(); err != nil {
		return spring.Params{}, WrapExitError(ExitCommandError, "invalid spring parameters", err)
	}
	return p, nil
}

// ColorProfile returns the profile the canvas should draw with.
func ColorProfile(opts *RootOptions) draw.Profile {
	if opts.NoColor {
		return draw.ProfileNone
	}
	return draw.ProfileAuto
}

func changed(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	f := cmd.Flag(name)
	return f != nil && f.Changed
}
